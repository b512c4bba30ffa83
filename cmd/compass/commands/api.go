package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/compass/internal/api"
	"github.com/wonny/compass/internal/api/handlers"
	"github.com/wonny/compass/internal/engine"
	"github.com/wonny/compass/internal/external/fundsource"
	"github.com/wonny/compass/internal/scheduler"
	"github.com/wonny/compass/internal/scheduler/jobs"
	"github.com/wonny/compass/internal/store"
	"github.com/wonny/compass/pkg/config"
	"github.com/wonny/compass/pkg/database"
	"github.com/wonny/compass/pkg/httputil"
	"github.com/wonny/compass/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server with the websocket event stream and the
scheduled daily analysis job.

Endpoints:
  GET  /health                 - Health check
  GET  /api/rankings           - Latest rankings (selected entries)
  GET  /api/rankings/{sector}  - Latest rankings for one sector
  GET  /api/stocks/{ticker}    - Full score breakdown for one ticker
  POST /api/analyze            - Score and rank a posted batch
  GET  /ws                     - Run-completed event stream

Example:
  go run ./cmd/compass api
  go run ./cmd/compass api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort        string
	apiNoScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&apiNoScheduler, "no-scheduler", false, "serve without the daily analysis job")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Compass API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Env:    cfg.Env,
	})

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Load scoring strategy
	strategy, err := loadStrategy(cfg)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}

	// 4. Connect to database when configured
	var repo *store.Repository
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo = store.NewRepository(db.Pool, log)
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, runs will not be persisted")
	}

	// 5. Create the engine and data source
	eng := engine.New(log)
	httpClient := httputil.New(log, cfg.Source.RequestsPerSec, cfg.Source.Timeout)
	source := fundsource.NewClient(httpClient, cfg.Source.BaseURL, log)

	// 6. Websocket event stream
	stream := api.NewStream(log)

	// 7. Scheduled daily analysis
	sched := scheduler.New(log)
	if !apiNoScheduler {
		job := jobs.NewAnalysis(source, eng, repo, stream, strategy, cfg.AnalysisSchedule, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule analysis job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 8. Handlers and router
	rankingHandler := handlers.NewRankingHandler(eng, log)
	stockHandler := handlers.NewStockHandler(eng, log)
	analyzeHandler := handlers.NewAnalyzeHandler(eng, strategy, log)

	router := api.NewRouter(rankingHandler, stockHandler, analyzeHandler, stream, log)
	server := api.New(cfg, log, router)

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
