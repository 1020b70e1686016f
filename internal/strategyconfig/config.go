package strategyconfig

// Config is the full strategy configuration for the drawdown screener.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Screening Screening `yaml:"screening" json:"screening"`
	SellRule  SellRule  `yaml:"sell_rule" json:"sell_rule"`
	Sizing    Sizing    `yaml:"sizing" json:"sizing"`
}

// Meta identifies the strategy version.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`
}

// Screening controls the drawdown ranking stage.
type Screening struct {
	LookbackDays int `yaml:"lookback_days" json:"lookback_days"` // trailing-high window, trading days
	TopK         int `yaml:"top_k" json:"top_k"`                 // buy universe size
}

// SellRule is the portfolio-level profit-taking rule: when the average
// unrealized gain across the top-N held positions reaches Threshold, all
// positions at or above MinGainFloor are closed in the same run.
type SellRule struct {
	Threshold     float64 `yaml:"threshold" json:"threshold"`             // e.g. 1.0 = +100%
	MinGainFloor  float64 `yaml:"min_gain_floor" json:"min_gain_floor"`   // individual floor for batch liquidation
	TopN          int     `yaml:"top_n" json:"top_n"`                     // positions averaged, default 5
	Top5Selection string  `yaml:"top5_selection" json:"top5_selection"`   // "entry_date" or "gain"
}

// Sizing controls buy sizing.
type Sizing struct {
	Mode              string  `yaml:"mode" json:"mode"` // "equal_weight" or "fixed_dollar"
	FixedDollarAmount float64 `yaml:"fixed_dollar_amount" json:"fixed_dollar_amount"`
	MaxPositions      int     `yaml:"max_positions" json:"max_positions"`
	CashReserve       float64 `yaml:"cash_reserve" json:"cash_reserve"` // fraction of capital kept in cash
}

// Default returns the built-in strategy configuration, matching the
// shipped config/strategy/russell_drawdown.yaml.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "russell_drawdown_v1",
			Version:    "1.0.0",
			Timezone:   "America/New_York",
		},
		Screening: Screening{
			LookbackDays: 180,
			TopK:         10,
		},
		SellRule: SellRule{
			Threshold:     1.0,
			MinGainFloor:  0.0,
			TopN:          5,
			Top5Selection: "entry_date",
		},
		Sizing: Sizing{
			Mode:              "equal_weight",
			FixedDollarAmount: 1000,
			MaxPositions:      10,
			CashReserve:       0.05,
		},
	}
}
