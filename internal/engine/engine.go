// Package engine orchestrates one analysis run: benchmark pass, per-stock
// rule evaluation, composite scoring and sector ranking.
package engine

import (
	"context"
	"runtime"
	"sync"

	"github.com/wonny/compass/internal/benchmark"
	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/internal/ranking"
	"github.com/wonny/compass/internal/rules"
	"github.com/wonny/compass/internal/scoring"
	"github.com/wonny/compass/pkg/logger"
)

// SentimentSource supplies the optional per-ticker sentiment scalar in
// [-1, 1]. The engine never fetches it; a nil source means no sentiment.
type SentimentSource interface {
	Sentiment(ticker string) (float64, bool)
}

// Engine is the deterministic ranking function over supplied inputs. It is
// safe for concurrent use: every run input, sentiment included, is a
// per-call argument; ComputeRankings replaces the retained batch atomically
// and Explain reads it under a read lock.
type Engine struct {
	benchmarks *benchmark.Calculator
	evaluators []rules.Evaluator
	logger     *logger.Logger

	mu          sync.RWMutex
	lastScores  map[string]contracts.CompositeScore
	lastEntries []contracts.RankedEntry
}

// New creates an engine.
func New(log *logger.Logger) *Engine {
	return &Engine{
		benchmarks: benchmark.NewCalculator(log),
		evaluators: rules.All(),
		logger:     log,
	}
}

// SentimentMap is a static SentimentSource backed by a map.
type SentimentMap map[string]float64

func (m SentimentMap) Sentiment(ticker string) (float64, bool) {
	v, ok := m[ticker]
	return v, ok
}

// ComputeRankings scores and ranks a full batch. The benchmark pass is a
// synchronization barrier: it completes over the whole population before
// any rule evaluation starts. Per-stock evaluation then runs across
// workers; each stock reads only its own fundamentals, the read-only
// benchmark set and the caller's sentiment source, so no locks are needed.
// sentiment may be nil; it must not be mutated while the call runs.
//
// Deterministic: the same stocks, sentiment and config produce identical
// output regardless of input order, worker scheduling or concurrent runs.
func (e *Engine) ComputeRankings(ctx context.Context, stocks []contracts.StockFundamentals, sentiment SentimentSource, cfg scoring.Config) ([]contracts.RankedEntry, error) {
	if err := scoring.Validate(&cfg); err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return nil, ErrEmptyBatch
	}

	benchmarks := e.benchmarks.Compute(stocks)

	scorer := scoring.NewScorer(cfg)
	scores := make([]contracts.CompositeScore, len(stocks))

	workers := runtime.NumCPU()
	if workers > len(stocks) {
		workers = len(stocks)
	}

	var wg sync.WaitGroup
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				scores[i] = e.scoreStock(&stocks[i], benchmarks, sentiment, scorer)
			}
		}()
	}

feed:
	for i := range stocks {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		// Cancellation discards the in-flight batch; nothing was committed.
		return nil, err
	}

	ranker := ranking.NewRanker(cfg.TopN, e.logger)
	entries := ranker.Rank(scores)

	e.retain(scores, entries)
	e.logSummary(scores)

	return entries, nil
}

// scoreStock evaluates the five rules in fixed order and combines them.
func (e *Engine) scoreStock(stock *contracts.StockFundamentals, benchmarks contracts.BenchmarkSet, sentiment SentimentSource, scorer *scoring.Scorer) contracts.CompositeScore {
	in := rules.Inputs{
		Stock:     *stock,
		Benchmark: benchmarks.Get(stock.Sector),
		Sentiment: lookupSentiment(sentiment, stock.Ticker),
		Prior:     make(map[contracts.RuleKind]contracts.RuleResult, len(e.evaluators)),
	}

	results := make([]contracts.RuleResult, 0, len(e.evaluators))
	for _, ev := range e.evaluators {
		r := ev.Evaluate(in)
		in.Prior[r.Kind] = r
		results = append(results, r)
	}

	return scorer.Score(stock.Ticker, stock.Sector, results)
}

func lookupSentiment(src SentimentSource, ticker string) contracts.Metric {
	if src == nil {
		return contracts.Absent()
	}
	v, ok := src.Sentiment(ticker)
	if !ok {
		return contracts.Absent()
	}
	return contracts.NewMetric(v)
}

// retain stores the batch for Explain and ranking reads.
func (e *Engine) retain(scores []contracts.CompositeScore, entries []contracts.RankedEntry) {
	byTicker := make(map[string]contracts.CompositeScore, len(scores))
	for _, s := range scores {
		byTicker[s.Ticker] = s
	}

	e.mu.Lock()
	e.lastScores = byTicker
	e.lastEntries = entries
	e.mu.Unlock()
}

// Explain returns the full breakdown for one ticker from the last computed
// batch. Read-only, no side effects.
func (e *Engine) Explain(ticker string) (contracts.CompositeScore, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.lastScores == nil {
		return contracts.CompositeScore{}, ErrNoBatch
	}
	score, ok := e.lastScores[ticker]
	if !ok {
		return contracts.CompositeScore{}, ErrUnknownTicker
	}
	return score, nil
}

// LastRankings returns the entries of the last computed batch, or nil.
func (e *Engine) LastRankings() []contracts.RankedEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastEntries
}

func (e *Engine) logSummary(scores []contracts.CompositeScore) {
	byRecommendation := make(map[contracts.Recommendation]int)
	lowRules := 0
	for _, s := range scores {
		byRecommendation[s.Recommendation]++
		lowRules += s.LowConfidenceCount()
	}

	e.logger.WithFields(map[string]interface{}{
		"stocks":            len(scores),
		"strong_buy":        byRecommendation[contracts.RecommendStrongBuy],
		"hold":              byRecommendation[contracts.RecommendHold],
		"overvalued":        byRecommendation[contracts.RecommendOvervalued],
		"insufficient_data": byRecommendation[contracts.RecommendInsufficientData],
		"low_rules":         lowRules,
	}).Info("Analysis batch completed")
}
