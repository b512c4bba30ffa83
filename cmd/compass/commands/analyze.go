package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/internal/engine"
	"github.com/wonny/compass/internal/scoring"
	"github.com/wonny/compass/internal/store"
	"github.com/wonny/compass/pkg/config"
	"github.com/wonny/compass/pkg/database"
	"github.com/wonny/compass/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score and rank a fundamentals batch",
	Long: `Runs one full analysis over a fundamentals batch and prints the
sector rankings.

The batch comes from a JSON file (--input) or from the latest stored
fundamentals (--from-db). Sentiment is optional: a JSON file mapping
ticker to a score in [-1, 1].

Example:
  go run ./cmd/compass analyze --input stocks.json
  go run ./cmd/compass analyze --input stocks.json --sentiment news.json --save
  go run ./cmd/compass analyze --from-db --strategy config/scoring.yaml`,
	RunE: runAnalyze,
}

var (
	analyzeInput     string
	analyzeSentiment string
	analyzeFromDB    bool
	analyzeSave      bool
	analyzeAll       bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "fundamentals batch (JSON file)")
	analyzeCmd.Flags().StringVar(&analyzeSentiment, "sentiment", "", "ticker sentiment map (JSON file)")
	analyzeCmd.Flags().BoolVar(&analyzeFromDB, "from-db", false, "load fundamentals from the database")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the run to the database")
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "print unselected entries too")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Compass Analysis ===")

	if analyzeInput == "" && !analyzeFromDB {
		return fmt.Errorf("either --input or --from-db is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Env:    cfg.Env,
	})
	if !verbose {
		log = logger.NewNop()
	}

	strategy, err := loadStrategy(cfg)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var repo *store.Repository
	if analyzeFromDB || analyzeSave {
		if cfg.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for --from-db / --save")
		}
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		repo = store.NewRepository(db.Pool, log)
	}

	// 1. Load the batch
	var stocks []contracts.StockFundamentals
	if analyzeFromDB {
		stocks, err = repo.LoadFundamentals(ctx)
		if err != nil {
			return fmt.Errorf("load fundamentals: %w", err)
		}
	} else {
		stocks, err = readStocksFile(analyzeInput)
		if err != nil {
			return err
		}
	}
	fmt.Printf("Loaded %d stocks\n", len(stocks))

	// 2. Optional sentiment
	var sentiment engine.SentimentMap
	if analyzeSentiment != "" {
		loaded, err := readSentimentFile(analyzeSentiment)
		if err != nil {
			return err
		}
		sentiment = engine.SentimentMap(loaded)
		fmt.Printf("Loaded sentiment for %d tickers\n", len(sentiment))
	}

	// 3. Score and rank
	eng := engine.New(log)
	entries, err := eng.ComputeRankings(ctx, stocks, sentiment, strategy)
	if err != nil {
		return fmt.Errorf("compute rankings: %w", err)
	}

	printRankings(eng, entries, analyzeAll)

	// 4. Persist when asked
	if analyzeSave {
		hash, err := scoring.Hash(&strategy)
		if err != nil {
			return fmt.Errorf("hash strategy: %w", err)
		}
		runID, err := repo.SaveRun(ctx, hash, entries)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("\nRun saved (id=%d, strategy=%s)\n", runID, hash[:12])
	}

	return nil
}

func readStocksFile(path string) ([]contracts.StockFundamentals, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var stocks []contracts.StockFundamentals
	if err := json.Unmarshal(data, &stocks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return stocks, nil
}

func readSentimentFile(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var sentiment map[string]float64
	if err := json.Unmarshal(data, &sentiment); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sentiment, nil
}

func printRankings(eng *engine.Engine, entries []contracts.RankedEntry, showAll bool) {
	currentSector := ""
	for _, e := range entries {
		if !e.Selected && !showAll {
			continue
		}

		if e.Sector != currentSector {
			currentSector = e.Sector
			fmt.Printf("\n[%s]\n", currentSector)
			fmt.Printf("%-5s %-10s %8s %6s %-18s %s\n",
				"RANK", "TICKER", "SCORE", "HIGH", "RECOMMENDATION", "")
		}

		marker := ""
		if !e.Selected {
			marker = "(unselected)"
		}
		fmt.Printf("%-5d %-10s %8.2f %6d %-18s %s\n",
			e.Rank, e.Ticker, e.Score.Overall,
			e.Score.HighConfidenceCount(), e.Score.Recommendation, marker)
	}
	fmt.Println()
}
