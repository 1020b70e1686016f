package contracts

import "time"

// DrawdownRecord is the trailing-drawdown metric for one ticker.
// DrawdownRatio = (TrailingHigh - CurrentPrice) / TrailingHigh, in [0, 1].
// A ratio of 0 means the price is at or above its trailing high.
type DrawdownRecord struct {
	Ticker        string    `json:"ticker"`
	CurrentPrice  float64   `json:"current_price"`
	TrailingHigh  float64   `json:"trailing_high"`
	DrawdownRatio float64   `json:"drawdown_ratio"`
	DaysSincePeak int       `json:"days_since_peak"`
	AsOf          time.Time `json:"as_of"`
	Rank          int       `json:"rank"` // 1-based, assigned by the screening engine
}

// CandidateList is the ranked output of a screening run: worst drawdowns
// first, ties broken by ticker ascending. Produced fresh each run and
// never mutated in place.
type CandidateList struct {
	AsOf     time.Time        `json:"as_of"`
	Records  []DrawdownRecord `json:"records"`
	Excluded int              `json:"excluded"` // tickers dropped for insufficient/invalid history
}

// TopK returns the first k records (the buy universe).
func (c *CandidateList) TopK(k int) []DrawdownRecord {
	if k > len(c.Records) {
		k = len(c.Records)
	}
	if k < 0 {
		k = 0
	}
	return c.Records[:k]
}

// Contains reports whether ticker appears anywhere in the list.
func (c *CandidateList) Contains(ticker string) bool {
	for i := range c.Records {
		if c.Records[i].Ticker == ticker {
			return true
		}
	}
	return false
}

// ScreeningResult is one run's persisted screening output.
type ScreeningResult struct {
	AsOf       time.Time     `json:"as_of"`
	Candidates CandidateList `json:"candidates"`
	TopK       int           `json:"top_k"`
}
