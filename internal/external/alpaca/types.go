package alpaca

import "strconv"

// Account is the trading account state. Alpaca returns monetary fields
// as strings.
type Account struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Cash           string `json:"cash"`
	BuyingPower    string `json:"buying_power"`
	PortfolioValue string `json:"portfolio_value"`
}

// CashValue parses the cash balance.
func (a *Account) CashValue() float64 {
	return parseFloat(a.Cash)
}

// PortfolioValueAmount parses the total portfolio value.
func (a *Account) PortfolioValueAmount() float64 {
	return parseFloat(a.PortfolioValue)
}

// BrokerPosition is one open position as reported by the broker.
type BrokerPosition struct {
	Symbol         string `json:"symbol"`
	Qty            string `json:"qty"`
	AvgEntryPrice  string `json:"avg_entry_price"`
	CurrentPrice   string `json:"current_price"`
	MarketValue    string `json:"market_value"`
	UnrealizedPL   string `json:"unrealized_pl"`
	UnrealizedPLPC string `json:"unrealized_plpc"`
}

func (p *BrokerPosition) QtyValue() float64        { return parseFloat(p.Qty) }
func (p *BrokerPosition) EntryPrice() float64      { return parseFloat(p.AvgEntryPrice) }
func (p *BrokerPosition) Price() float64           { return parseFloat(p.CurrentPrice) }
func (p *BrokerPosition) UnrealizedValue() float64 { return parseFloat(p.UnrealizedPL) }

// OrderRequest is a market order submission. Exactly one of Notional or
// Qty is set.
type OrderRequest struct {
	Symbol      string `json:"symbol"`
	Notional    string `json:"notional,omitempty"`
	Qty         string `json:"qty,omitempty"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
}

// Order is the broker's acknowledgement of a submitted order.
type Order struct {
	ID            string `json:"id"`
	ClientOrderID string `json:"client_order_id"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	Side          string `json:"side"`
	Notional      string `json:"notional"`
	Qty           string `json:"qty"`
	FilledQty     string `json:"filled_qty"`
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
