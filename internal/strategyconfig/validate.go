package strategyconfig

import "fmt"

// ValidationError is a hard constraint violation. Loading stops on the
// first one.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints on a strategy config.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	if cfg.Screening.LookbackDays <= 0 {
		return ValidationError{"screening.lookback_days", "must be > 0"}
	}
	if cfg.Screening.TopK <= 0 {
		return ValidationError{"screening.top_k", "must be > 0"}
	}

	if cfg.SellRule.Threshold <= 0 {
		return ValidationError{"sell_rule.threshold", "must be > 0"}
	}
	if cfg.SellRule.MinGainFloor < 0 {
		return ValidationError{"sell_rule.min_gain_floor", "must be >= 0"}
	}
	if cfg.SellRule.MinGainFloor > cfg.SellRule.Threshold {
		return ValidationError{"sell_rule.min_gain_floor", "must be <= threshold"}
	}
	if cfg.SellRule.TopN <= 0 {
		return ValidationError{"sell_rule.top_n", "must be > 0"}
	}
	switch cfg.SellRule.Top5Selection {
	case "entry_date", "gain":
	default:
		return ValidationError{"sell_rule.top5_selection", "must be 'entry_date' or 'gain'"}
	}

	switch cfg.Sizing.Mode {
	case "equal_weight":
	case "fixed_dollar":
		if cfg.Sizing.FixedDollarAmount <= 0 {
			return ValidationError{"sizing.fixed_dollar_amount", "must be > 0 for fixed_dollar mode"}
		}
	default:
		return ValidationError{"sizing.mode", "must be 'equal_weight' or 'fixed_dollar'"}
	}
	if cfg.Sizing.MaxPositions <= 0 {
		return ValidationError{"sizing.max_positions", "must be > 0"}
	}
	if cfg.Sizing.CashReserve < 0 || cfg.Sizing.CashReserve >= 1 {
		return ValidationError{"sizing.cash_reserve", "must be in [0, 1)"}
	}

	return nil
}
