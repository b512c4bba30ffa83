package scoring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Validate(DefaultConfig()) = %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
	}{
		{
			name:   "weights not summing to one",
			mutate: func(c *Config) { c.Weights.Valuation = 0.5 },
			field:  "weights",
		},
		{
			name:   "negative weight",
			mutate: func(c *Config) { c.Weights.Clarity = -0.1; c.Weights.Moat += 0.25 },
			field:  "weights.clarity",
		},
		{
			name:   "multiplier above one",
			mutate: func(c *Config) { c.Multipliers.High = 1.5 },
			field:  "confidence_multipliers.high",
		},
		{
			name:   "zero multiplier",
			mutate: func(c *Config) { c.Multipliers.Low = 0 },
			field:  "confidence_multipliers.low",
		},
		{
			name:   "multipliers out of order",
			mutate: func(c *Config) { c.Multipliers.Medium = 0.5; c.Multipliers.Low = 0.9 },
			field:  "confidence_multipliers",
		},
		{
			name:   "thresholds out of order",
			mutate: func(c *Config) { c.Thresholds.Hold = 80 },
			field:  "thresholds",
		},
		{
			name:   "non-positive top n",
			mutate: func(c *Config) { c.TopN = 0 },
			field:  "top_n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := Validate(&cfg)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			cfgErr, ok := err.(ConfigError)
			if !ok {
				t.Fatalf("Validate() error type = %T, want ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")

	yaml := `
weights:
  clarity: 0.2
  moat: 0.2
  valuation: 0.2
  trend: 0.2
  sell_signal: 0.2
top_n: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Weights.Clarity != 0.2 {
		t.Errorf("Weights.Clarity = %v, want 0.2", cfg.Weights.Clarity)
	}
	if cfg.TopN != 5 {
		t.Errorf("TopN = %d, want 5", cfg.TopN)
	}
	// Unspecified sections keep the built-in defaults.
	if cfg.Thresholds.StrongBuy != DefaultStrongBuyThreshold {
		t.Errorf("Thresholds.StrongBuy = %v, want default", cfg.Thresholds.StrongBuy)
	}
}

func TestLoad_UnknownFieldFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")

	yaml := "top_m: 5\n" // typo
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() with unknown field = nil, want error")
	}
}

func TestLoad_InvalidStrategyFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")

	yaml := "top_n: -1\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() with invalid strategy = nil, want error")
	}
	if !strings.Contains(err.Error(), "top_n") {
		t.Errorf("error = %v, want mention of top_n", err)
	}
}

func TestHash_DeterministicAndSensitive(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()

	ha, err := Hash(&a)
	if err != nil {
		t.Fatal(err)
	}
	hb, err := Hash(&b)
	if err != nil {
		t.Fatal(err)
	}
	if ha != hb {
		t.Errorf("identical configs hashed differently: %s vs %s", ha, hb)
	}

	b.TopN = 7
	hc, err := Hash(&b)
	if err != nil {
		t.Fatal(err)
	}
	if ha == hc {
		t.Error("different configs produced the same hash")
	}
}
