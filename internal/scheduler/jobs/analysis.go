// Package jobs holds the scheduled pipelines.
package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/internal/engine"
	"github.com/wonny/compass/internal/external/fundsource"
	"github.com/wonny/compass/internal/scoring"
	"github.com/wonny/compass/internal/store"
	"github.com/wonny/compass/pkg/logger"
)

// Notifier receives run-completed events; the websocket hub implements it.
type Notifier interface {
	NotifyRunCompleted(runID int64, entries int)
}

// Analysis is the daily pipeline: fetch fundamentals and headlines, score
// and rank the batch, persist the run, notify listeners.
type Analysis struct {
	source   *fundsource.Client
	engine   *engine.Engine
	repo     *store.Repository
	notifier Notifier
	cfg      scoring.Config
	schedule string
	logger   *logger.Logger
}

// NewAnalysis creates the analysis job. repo and notifier may be nil when
// running without a database or API server.
func NewAnalysis(
	source *fundsource.Client,
	eng *engine.Engine,
	repo *store.Repository,
	notifier Notifier,
	cfg scoring.Config,
	schedule string,
	log *logger.Logger,
) *Analysis {
	return &Analysis{
		source:   source,
		engine:   eng,
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		schedule: schedule,
		logger:   log,
	}
}

// AnalysisJobName is the scheduler registration name.
const AnalysisJobName = "analysis"

func (j *Analysis) Name() string {
	return AnalysisJobName
}

func (j *Analysis) Schedule() string {
	return j.schedule
}

// Run executes one full pipeline pass.
func (j *Analysis) Run(ctx context.Context) error {
	stocks, err := j.source.FetchFundamentals(ctx)
	if err != nil {
		return fmt.Errorf("fetch fundamentals: %w", err)
	}

	tickers := make([]string, len(stocks))
	for i := range stocks {
		tickers[i] = stocks[i].Ticker
	}

	sentiment, err := j.source.FetchSentiment(ctx, tickers)
	if err != nil {
		// Sentiment is an optional secondary signal; the rules degrade
		// confidence on their own when it is missing.
		j.logger.WithError(err).Warn("Sentiment fetch failed, continuing without it")
		sentiment = contracts.SentimentSet{}
	}

	if j.repo != nil {
		if err := j.repo.SaveFundamentals(ctx, stocks); err != nil {
			return fmt.Errorf("save fundamentals: %w", err)
		}
	}

	entries, err := j.engine.ComputeRankings(ctx, stocks, engine.SentimentMap(sentiment), j.cfg)
	if err != nil {
		return fmt.Errorf("compute rankings: %w", err)
	}

	var runID int64
	if j.repo != nil {
		hash, err := scoring.Hash(&j.cfg)
		if err != nil {
			return fmt.Errorf("hash config: %w", err)
		}
		runID, err = j.repo.SaveRun(ctx, hash, entries)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	if j.notifier != nil {
		j.notifier.NotifyRunCompleted(runID, len(entries))
	}

	return nil
}
