package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/compass/internal/scoring"
	"github.com/wonny/compass/pkg/config"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "compass",
	Short: "Compass - multi-factor stock scoring engine",
	Long: `Compass Unified CLI

Multi-factor fundamental scoring and sector ranking.
Five rules per stock, confidence-weighted composite, top-N per sector.

Usage:
  go run ./cmd/compass [command]

Examples:
  go run ./cmd/compass analyze --input stocks.json
  go run ./cmd/compass api
  go run ./cmd/compass worker start
  go run ./cmd/compass migrate`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "scoring strategy file (YAML, default is built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadStrategy resolves the scoring config: the --strategy flag wins, then
// SCORING_CONFIG from the environment, then built-in defaults.
func loadStrategy(cfg *config.Config) (scoring.Config, error) {
	path := strategyFile
	if path == "" {
		path = cfg.ScoringConfigPath
	}
	if path == "" {
		return scoring.DefaultConfig(), nil
	}

	loaded, err := scoring.Load(path)
	if err != nil {
		return scoring.Config{}, err
	}
	return *loaded, nil
}
