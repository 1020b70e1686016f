package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := "../../config/strategy/russell_drawdown.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	assert.Equal(t, "russell_drawdown_v1", cfg.Meta.StrategyID)
	assert.Equal(t, 180, cfg.Screening.LookbackDays)
	assert.Equal(t, 10, cfg.Screening.TopK)
	assert.Equal(t, 1.0, cfg.SellRule.Threshold)
	assert.Equal(t, 5, cfg.SellRule.TopN)
	assert.Equal(t, "entry_date", cfg.SellRule.Top5Selection)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	// Same config, same hash.
	hash2, err := Hash(cfg)
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	yaml := `
meta:
  strategy_id: test
screening:
  lookback_days: 180
  top_k: 10
  not_a_field: true
sell_rule:
  threshold: 1.0
  top_n: 5
  top5_selection: entry_date
sizing:
  mode: equal_weight
  max_positions: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid default", func(c *Config) {}, ""},
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }, "meta.strategy_id"},
		{"zero lookback", func(c *Config) { c.Screening.LookbackDays = 0 }, "screening.lookback_days"},
		{"negative top_k", func(c *Config) { c.Screening.TopK = -1 }, "screening.top_k"},
		{"zero threshold", func(c *Config) { c.SellRule.Threshold = 0 }, "sell_rule.threshold"},
		{"floor above threshold", func(c *Config) { c.SellRule.MinGainFloor = 2.0 }, "sell_rule.min_gain_floor"},
		{"bad selection mode", func(c *Config) { c.SellRule.Top5Selection = "random" }, "sell_rule.top5_selection"},
		{"bad sizing mode", func(c *Config) { c.Sizing.Mode = "kelly" }, "sizing.mode"},
		{"fixed dollar without amount", func(c *Config) {
			c.Sizing.Mode = "fixed_dollar"
			c.Sizing.FixedDollarAmount = 0
		}, "sizing.fixed_dollar_amount"},
		{"cash reserve out of range", func(c *Config) { c.Sizing.CashReserve = 1.0 }, "sizing.cash_reserve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHashChangesWithConfig(t *testing.T) {
	a := Default()
	b := Default()
	b.Screening.TopK = 20

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, fromFile, err := LoadOrDefault("/nonexistent/strategy.yaml")
	require.NoError(t, err)
	assert.False(t, fromFile)
	assert.Equal(t, Default(), cfg)
}
