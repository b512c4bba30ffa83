package scoring

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the scoring strategy: rule weights, confidence multipliers,
// recommendation thresholds and the top-N cut. All figures here are
// documented constants, never literals scattered through the scorer.
type Config struct {
	Weights     RuleWeights           `yaml:"weights" json:"weights"`
	Multipliers ConfidenceMultipliers `yaml:"confidence_multipliers" json:"confidence_multipliers"`
	Thresholds  Thresholds            `yaml:"thresholds" json:"thresholds"`
	TopN        int                   `yaml:"top_n" json:"top_n"`
}

// RuleWeights is the fixed weight table over the five rules. Must sum to 1.
type RuleWeights struct {
	Clarity    float64 `yaml:"clarity" json:"clarity"`
	Moat       float64 `yaml:"moat" json:"moat"`
	Valuation  float64 `yaml:"valuation" json:"valuation"`
	Trend      float64 `yaml:"trend" json:"trend"`
	SellSignal float64 `yaml:"sell_signal" json:"sell_signal"`
}

// Sum returns the total of all rule weights.
func (w RuleWeights) Sum() float64 {
	return w.Clarity + w.Moat + w.Valuation + w.Trend + w.SellSignal
}

// ConfidenceMultipliers down-weight sub-scores by confidence level.
type ConfidenceMultipliers struct {
	High   float64 `yaml:"high" json:"high"`
	Medium float64 `yaml:"medium" json:"medium"`
	Low    float64 `yaml:"low" json:"low"`
}

// Thresholds are the recommendation score cuts: >= StrongBuy is a strong
// buy, >= Hold holds, >= Caution is overvalued, below that (or when a
// majority of rules is LOW confidence) the data is insufficient.
type Thresholds struct {
	StrongBuy float64 `yaml:"strong_buy" json:"strong_buy"`
	Hold      float64 `yaml:"hold" json:"hold"`
	Caution   float64 `yaml:"caution" json:"caution"`
}

// Default weight table and thresholds.
const (
	DefaultClarityWeight    = 0.15
	DefaultMoatWeight       = 0.25
	DefaultValuationWeight  = 0.30
	DefaultTrendWeight      = 0.20
	DefaultSellSignalWeight = 0.10

	DefaultHighMultiplier   = 1.0
	DefaultMediumMultiplier = 0.85
	DefaultLowMultiplier    = 0.65

	DefaultStrongBuyThreshold = 75.0
	DefaultHoldThreshold      = 55.0
	DefaultCautionThreshold   = 35.0

	DefaultTopN = 10
)

// weightSumTolerance absorbs binary float representation error.
const weightSumTolerance = 1e-6

// DefaultConfig returns the documented default strategy.
func DefaultConfig() Config {
	return Config{
		Weights: RuleWeights{
			Clarity:    DefaultClarityWeight,
			Moat:       DefaultMoatWeight,
			Valuation:  DefaultValuationWeight,
			Trend:      DefaultTrendWeight,
			SellSignal: DefaultSellSignalWeight,
		},
		Multipliers: ConfidenceMultipliers{
			High:   DefaultHighMultiplier,
			Medium: DefaultMediumMultiplier,
			Low:    DefaultLowMultiplier,
		},
		Thresholds: Thresholds{
			StrongBuy: DefaultStrongBuyThreshold,
			Hold:      DefaultHoldThreshold,
			Caution:   DefaultCautionThreshold,
		},
		TopN: DefaultTopN,
	}
}

// ConfigError reports an invalid strategy field. Computation never starts
// on an invalid config.
type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Message)
}

// Validate checks the strategy before any computation.
func Validate(cfg *Config) error {
	if math.Abs(cfg.Weights.Sum()-1.0) > weightSumTolerance {
		return ConfigError{"weights", fmt.Sprintf("must sum to 1.0, got %.4f", cfg.Weights.Sum())}
	}
	for name, w := range map[string]float64{
		"weights.clarity":     cfg.Weights.Clarity,
		"weights.moat":        cfg.Weights.Moat,
		"weights.valuation":   cfg.Weights.Valuation,
		"weights.trend":       cfg.Weights.Trend,
		"weights.sell_signal": cfg.Weights.SellSignal,
	} {
		if w < 0 {
			return ConfigError{name, "must be >= 0"}
		}
	}

	m := cfg.Multipliers
	for name, v := range map[string]float64{
		"confidence_multipliers.high":   m.High,
		"confidence_multipliers.medium": m.Medium,
		"confidence_multipliers.low":    m.Low,
	} {
		if v <= 0 || v > 1 {
			return ConfigError{name, "must be in (0, 1]"}
		}
	}
	if m.High < m.Medium || m.Medium < m.Low {
		return ConfigError{"confidence_multipliers", "must be ordered high >= medium >= low"}
	}

	t := cfg.Thresholds
	if !(t.StrongBuy > t.Hold && t.Hold > t.Caution) {
		return ConfigError{"thresholds", "must satisfy strong_buy > hold > caution"}
	}
	if t.Caution < 0 || t.StrongBuy > 100 {
		return ConfigError{"thresholds", "must stay within [0, 100]"}
	}

	if cfg.TopN <= 0 {
		return ConfigError{"top_n", "must be > 0"}
	}

	return nil
}

// Load reads a YAML strategy file. Unknown fields fail immediately so a
// typo cannot silently run with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Hash returns the SHA-256 of the canonical JSON form, stamped on persisted
// runs so a stored ranking records exactly which strategy produced it.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
