package store

import (
	"context"
	"fmt"
)

// schema holds the DDL for the analysis tables. Idempotent; applied at
// startup by commands that use the store.
var schema = []string{
	`CREATE SCHEMA IF NOT EXISTS analysis`,
	`CREATE TABLE IF NOT EXISTS analysis.runs (
		id          BIGSERIAL PRIMARY KEY,
		config_hash TEXT NOT NULL,
		stock_count INT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS analysis.ranked_entries (
		id             BIGSERIAL PRIMARY KEY,
		run_id         BIGINT NOT NULL REFERENCES analysis.runs(id) ON DELETE CASCADE,
		ticker         TEXT NOT NULL,
		sector         TEXT NOT NULL,
		rank_position  INT NOT NULL,
		selected       BOOLEAN NOT NULL,
		overall_score  DOUBLE PRECISION NOT NULL,
		recommendation TEXT NOT NULL,
		breakdown      JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ranked_entries_run
		ON analysis.ranked_entries (run_id, sector, rank_position)`,
	`CREATE TABLE IF NOT EXISTS analysis.fundamentals (
		ticker   TEXT NOT NULL,
		as_of    TIMESTAMPTZ NOT NULL,
		snapshot JSONB NOT NULL,
		PRIMARY KEY (ticker, as_of)
	)`,
}

// Migrate applies the schema.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	r.logger.Debug("Schema up to date")
	return nil
}
