package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

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

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Scheduled analysis worker",
	Long: `Runs the cron-scheduled analysis pipeline without the API server.

The worker:
- fetches fundamentals and headlines on the ANALYSIS_SCHEDULE cron spec
- scores and ranks the batch
- persists runs when DATABASE_URL is set
- retries failed runs and keeps per-job history

Subcommands:
  start   - start the worker daemon
  run     - execute the analysis job once, immediately
  status  - show job history

Example:
  go run ./cmd/compass worker start
  go run ./cmd/compass worker run`,
}

var (
	workerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the worker daemon",
		RunE:  runWorkerStart,
	}

	workerRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Execute the analysis job once",
		RunE:  runWorkerOnce,
	}

	workerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job history",
		RunE:  showWorkerStatus,
	}
)

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.AddCommand(workerStartCmd)
	workerCmd.AddCommand(workerRunCmd)
	workerCmd.AddCommand(workerStatusCmd)
}

// initWorker builds the scheduler with the analysis job registered.
func initWorker() (*scheduler.Scheduler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Env:    cfg.Env,
	})

	strategy, err := loadStrategy(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load strategy: %w", err)
	}

	cleanup := func() {}
	var repo *store.Repository
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		cleanup = db.Close
		repo = store.NewRepository(db.Pool, log)
	} else {
		log.Warn("DATABASE_URL not set, runs will not be persisted")
	}

	httpClient := httputil.New(log, cfg.Source.RequestsPerSec, cfg.Source.Timeout)
	source := fundsource.NewClient(httpClient, cfg.Source.BaseURL, log)
	eng := engine.New(log)

	sched := scheduler.New(log)
	job := jobs.NewAnalysis(source, eng, repo, nil, strategy, cfg.AnalysisSchedule, log)
	if err := sched.AddJob(job); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("schedule analysis job: %w", err)
	}

	return sched, cleanup, nil
}

func runWorkerStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Compass Worker ===")

	sched, cleanup, err := initWorker()
	if err != nil {
		return err
	}
	defer cleanup()

	sched.Start()
	defer sched.Stop()

	fmt.Println("Worker started")
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nWorker stopped")
	return nil
}

func runWorkerOnce(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Compass Worker (single run) ===")

	sched, cleanup, err := initWorker()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := sched.RunJob(jobs.AnalysisJobName); err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	fmt.Println("Analysis completed")
	return nil
}

func showWorkerStatus(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initWorker()
	if err != nil {
		return err
	}
	defer cleanup()

	history, err := sched.History(jobs.AnalysisJobName)
	if err != nil {
		return err
	}

	if len(history.Results) == 0 {
		fmt.Println("No runs recorded in this process")
		return nil
	}

	fmt.Printf("Success rate: %.0f%%\n\n", history.SuccessRate()*100)
	for _, r := range history.Results {
		status := "ok"
		if !r.Success {
			status = "failed: " + r.Error
		}
		fmt.Printf("%s  %-8s  %s\n", r.StartTime.Format("2006-01-02 15:04:05"), r.Duration, status)
	}
	return nil
}
