// Package config loads the simulator's tunable parameters from an
// optional YAML file: environment-variable expansion, then
// yaml.Unmarshal, with zap logging around the read. CLI flags (see
// cmd/lobsim) are applied on top of whatever this returns.
package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RegimeMix is the categorical distribution over event types active in
// one regime. Cancel's probability is implicit: 1 minus the sum of the
// other four. The five are intended to sum to 1.
type RegimeMix struct {
	PLimitBuy  float64 `yaml:"p_limit_buy"`
	PLimitSell float64 `yaml:"p_limit_sell"`
	PMktBuy    float64 `yaml:"p_mkt_buy"`
	PMktSell   float64 `yaml:"p_mkt_sell"`
	PCancel    float64 `yaml:"p_cancel"`
}

// RegimeParams is the arrival rate and event mix for one regime.
type RegimeParams struct {
	Lambda float64   `yaml:"lambda"` // events per second
	Mix    RegimeMix `yaml:"mix"`
}

// RegimeConfig is the two-state Markov chain governing regime
// switches, plus each regime's own parameters.
type RegimeConfig struct {
	PLL  float64      `yaml:"p_ll"` // stay-Low probability
	PHH  float64      `yaml:"p_hh"` // stay-High probability
	Low  RegimeParams `yaml:"low"`
	High RegimeParams `yaml:"high"`
}

// SimConfig is the full set of simulator parameters.
type SimConfig struct {
	Seed          uint64       `yaml:"seed"`
	MaxEvents     int          `yaml:"max_events"`
	SnapshotEvery int          `yaml:"snapshot_every"`
	LogTrades     bool         `yaml:"log_trades"`
	Regime        RegimeConfig `yaml:"regime"`

	MeanLimitQty  float64 `yaml:"mean_limit_qty"`
	MeanMarketQty float64 `yaml:"mean_market_qty"`

	InitialMidTicks int64   `yaml:"initial_mid_ticks"`
	MinPriceTicks   int64   `yaml:"min_price_ticks"`
	MaxOffsetTicks  int64   `yaml:"max_offset_ticks"`
	GeolapAlpha     float64 `yaml:"geolap_alpha"`
	// KeepCrossProb is accepted for forward compatibility but is not
	// read by the anti-cross rule, which always flips a fair coin.
	KeepCrossProb float64 `yaml:"keep_cross_prob"`
}

// Default returns the demo's own baseline parameters (mirroring the
// original source's SimConfig initialization in main()).
func Default() SimConfig {
	return SimConfig{
		Seed:          42,
		MaxEvents:     200000,
		SnapshotEvery: 0,
		LogTrades:     false,
		Regime: RegimeConfig{
			PLL: 0.995,
			PHH: 0.990,
			Low: RegimeParams{
				Lambda: 800.0,
				Mix: RegimeMix{
					PLimitBuy:  0.35,
					PLimitSell: 0.35,
					PMktBuy:    0.10,
					PMktSell:   0.10,
				},
			},
			High: RegimeParams{
				Lambda: 2000.0,
				Mix: RegimeMix{
					PLimitBuy:  0.28,
					PLimitSell: 0.28,
					PMktBuy:    0.18,
					PMktSell:   0.18,
				},
			},
		},
		MeanLimitQty:    50.0,
		MeanMarketQty:   50.0,
		InitialMidTicks: 10000,
		MinPriceTicks:   1,
		MaxOffsetTicks:  50,
		GeolapAlpha:     0.15,
		KeepCrossProb:   0.15,
	}
}

// Load reads a SimConfig from a YAML file, expanding ${VAR}
// environment references first. An empty filePath falls back to the
// CONFIG_FILE environment variable; if neither is set, Load returns
// Default() unchanged.
func Load(filePath string) (SimConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}
	cfg := Default()
	if len(filePath) == 0 {
		return cfg, nil
	}

	sugar := zap.S().With("func", "config.Load", "filePath", filePath)
	sugar.Debug("loading sim config")

	raw, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Errorw("failed to read config file", "error", err)
		return cfg, err
	}
	raw = []byte(os.ExpandEnv(string(raw)))

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		sugar.Errorw("failed to parse config file", "error", err)
		return cfg, err
	}

	sugar.Debugw("loaded sim config", "config", cfg)
	return cfg, nil
}
