package query

import (
	"fmt"
	"strings"

	"github.com/jdlee-quant/rebound/internal/contracts"
)

// Formatter renders query results as chat-ready markdown. The bot layer
// forwards these verbatim.
type Formatter struct{}

// NewFormatter creates a formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// TopCandidates renders the latest screening top-K.
func (f *Formatter) TopCandidates(res *contracts.ScreeningResult) string {
	if res == nil || len(res.Candidates.Records) == 0 {
		return "No screening data available yet. Check back after the next daily run."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📉 *TOP %d WORST DRAWDOWNS* (%s)\n\n", len(res.Candidates.Records), res.AsOf.Format("2006-01-02"))
	b.WriteString("_Contrarian value opportunities from the Russell 1000:_\n\n")

	for _, rec := range res.Candidates.Records {
		fmt.Fprintf(&b, "*%d. %s*: -%.1f%%\n", rec.Rank, rec.Ticker, rec.DrawdownRatio*100)
		fmt.Fprintf(&b, "   $%.2f → $%.2f (%d days ago)\n\n", rec.TrailingHigh, rec.CurrentPrice, rec.DaysSincePeak)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Portfolio renders the current holdings.
func (f *Formatter) Portfolio(snap *contracts.PortfolioSnapshot) string {
	if snap == nil || snap.Count() == 0 {
		return "📊 *PORTFOLIO SUMMARY*\n\nNo current positions."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *PORTFOLIO SUMMARY* (%s)\n\n", snap.AsOf.Format("2006-01-02"))
	fmt.Fprintf(&b, "*Positions:* %d\n", snap.Count())
	fmt.Fprintf(&b, "*Total Value:* $%.2f\n", snap.TotalMarketValue())
	fmt.Fprintf(&b, "*Cash:* $%.2f\n\n", snap.Cash)
	b.WriteString("*Current Positions:*\n")

	for _, p := range snap.Positions {
		gain := p.GainRatio() * 100
		emoji := "🔴"
		if gain > 0 {
			emoji = "🟢"
		}
		stale := ""
		if p.Stale {
			stale = " (stale)"
		}
		fmt.Fprintf(&b, "%s *%s*: %+.1f%% ($%.0f)%s\n", emoji, p.Ticker, gain, p.MarketValue(), stale)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ProfitTaking renders the sell-rule status.
func (f *Formatter) ProfitTaking(status *ProfitTakingStatus) string {
	if status == nil {
		return "No portfolio data available to check."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 *PROFIT TARGET CHECK* (%s)\n\n", status.AsOf.Format("2006-01-02"))

	if !status.Eligible {
		fmt.Fprintf(&b, "Only %d positions held. Not enough to evaluate the rule.", status.Positions)
		return b.String()
	}

	fmt.Fprintf(&b, "*Top %d Average Gain:* %+.1f%%\n", len(status.TopN), status.AverageGain*100)
	fmt.Fprintf(&b, "*Target:* %+.1f%%\n\n", status.Threshold*100)

	if status.Fired {
		b.WriteString("🚨 *TAKE PROFIT SIGNAL!* 🚨\n\n*Positions to exit:*\n")
		for _, p := range status.TopN {
			fmt.Fprintf(&b, "• *%s*: %+.1f%%\n", p.Ticker, p.GainRatio()*100)
		}
	} else {
		gap := (status.Threshold - status.AverageGain) * 100
		fmt.Fprintf(&b, "No signal. %.1f%% below target.", gap)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Summary renders the historical aggregate.
func (f *Formatter) Summary(s *HistoricalSummary) string {
	if s == nil || s.Runs == 0 {
		return "📈 *HISTORY*\n\nNo runs recorded in this range."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📈 *HISTORY* (%s → %s)\n\n", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	fmt.Fprintf(&b, "*Runs:* %d\n", s.Runs)
	fmt.Fprintf(&b, "*Closed Trades:* %d\n", s.ClosedTrades)
	fmt.Fprintf(&b, "*Realized P&L:* $%+.2f\n", s.RealizedPL)
	fmt.Fprintf(&b, "*Skipped Buys:* %d\n", s.SkippedBuys)
	fmt.Fprintf(&b, "*Open Positions:* %d\n", s.Positions)
	fmt.Fprintf(&b, "*Portfolio Value:* $%.2f", s.FinalValue)
	return b.String()
}
