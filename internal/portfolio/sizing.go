package portfolio

import "fmt"

// Sizing modes.
const (
	SizingEqualWeight = "equal_weight"
	SizingFixedDollar = "fixed_dollar"
)

// SizingConfig controls how buy orders are sized.
type SizingConfig struct {
	Mode              string
	FixedDollarAmount float64
	MaxPositions      int
	CashReserve       float64 // fraction of cash held back from buying
}

// spendPerBuy returns the dollar amount to commit to each of n planned
// buys given the investable cash. Fractional shares are assumed, so the
// spend converts directly to quantity at the fill price.
func (c SizingConfig) spendPerBuy(cash float64, n int) (float64, error) {
	if n <= 0 {
		return 0, nil
	}

	switch c.Mode {
	case SizingFixedDollar:
		return c.FixedDollarAmount, nil
	case SizingEqualWeight, "":
		budget := cash * (1 - c.CashReserve)
		if budget <= 0 {
			return 0, nil
		}
		return budget / float64(n), nil
	default:
		return 0, fmt.Errorf("unknown sizing mode %q", c.Mode)
	}
}
