// Package store persists analysis runs and serves fundamentals snapshots
// collected out-of-band. The engine itself never touches the database;
// persistence happens only after a full batch has been produced.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/pkg/logger"
)

// Repository is the Postgres-backed run store.
type Repository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewRepository creates a repository on an existing pool.
func NewRepository(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, logger: log}
}

// Run is one persisted analysis run.
type Run struct {
	ID         int64     `json:"id"`
	ConfigHash string    `json:"config_hash"`
	StockCount int       `json:"stock_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveRun stores a completed batch: one run row plus all ranked entries
// with their full rule breakdown as JSONB.
func (r *Repository) SaveRun(ctx context.Context, configHash string, entries []contracts.RankedEntry) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO analysis.runs (config_hash, stock_count, created_at)
		VALUES ($1, $2, now())
		RETURNING id
	`, configHash, len(entries)).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		breakdown, err := json.Marshal(e.Score)
		if err != nil {
			return 0, fmt.Errorf("marshal breakdown for %s: %w", e.Ticker, err)
		}
		batch.Queue(`
			INSERT INTO analysis.ranked_entries
				(run_id, ticker, sector, rank_position, selected, overall_score, recommendation, breakdown)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, runID, e.Ticker, e.Sector, e.Rank, e.Selected,
			e.Score.Overall, string(e.Score.Recommendation), breakdown)
	}

	br := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("insert ranked entry: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"run_id":  runID,
		"entries": len(entries),
	}).Info("Analysis run persisted")

	return runID, nil
}

// LatestRun returns the most recent persisted run, or pgx.ErrNoRows.
func (r *Repository) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := r.pool.QueryRow(ctx, `
		SELECT id, config_hash, stock_count, created_at
		FROM analysis.runs
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.ConfigHash, &run.StockCount, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RankedEntries loads all entries of a run, sector then rank order.
func (r *Repository) RankedEntries(ctx context.Context, runID int64) ([]contracts.RankedEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ticker, sector, rank_position, selected, breakdown
		FROM analysis.ranked_entries
		WHERE run_id = $1
		ORDER BY sector, rank_position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []contracts.RankedEntry
	for rows.Next() {
		var e contracts.RankedEntry
		var breakdown []byte
		if err := rows.Scan(&e.Ticker, &e.Sector, &e.Rank, &e.Selected, &breakdown); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(breakdown, &e.Score); err != nil {
			return nil, fmt.Errorf("unmarshal breakdown for %s: %w", e.Ticker, err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// LoadFundamentals reads the latest fundamentals snapshot per ticker. The
// collector writes one JSONB document per ticker per day; absent metrics
// are stored as JSON null, which maps back onto the Metric sentinel.
func (r *Repository) LoadFundamentals(ctx context.Context) ([]contracts.StockFundamentals, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (ticker) snapshot
		FROM analysis.fundamentals
		ORDER BY ticker, as_of DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []contracts.StockFundamentals
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var s contracts.StockFundamentals
		if err := json.Unmarshal(doc, &s); err != nil {
			return nil, fmt.Errorf("unmarshal fundamentals: %w", err)
		}
		stocks = append(stocks, s)
	}

	return stocks, rows.Err()
}

// SaveFundamentals upserts the day's snapshot for each ticker.
func (r *Repository) SaveFundamentals(ctx context.Context, stocks []contracts.StockFundamentals) error {
	batch := &pgx.Batch{}
	for i := range stocks {
		doc, err := json.Marshal(&stocks[i])
		if err != nil {
			return fmt.Errorf("marshal fundamentals for %s: %w", stocks[i].Ticker, err)
		}
		batch.Queue(`
			INSERT INTO analysis.fundamentals (ticker, as_of, snapshot)
			VALUES ($1, $2, $3)
			ON CONFLICT (ticker, as_of) DO UPDATE SET snapshot = EXCLUDED.snapshot
		`, stocks[i].Ticker, stocks[i].AsOf, doc)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range stocks {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert fundamentals: %w", err)
		}
	}

	return nil
}
