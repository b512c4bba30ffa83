package engine

import "errors"

var (
	// ErrEmptyBatch is returned when ComputeRankings is called with zero
	// stocks; no benchmark can be computed from an empty population.
	ErrEmptyBatch = errors.New("empty batch: no stocks to analyze")

	// ErrUnknownTicker is returned by Explain for a ticker absent from the
	// last computed batch.
	ErrUnknownTicker = errors.New("ticker not in last analysis batch")

	// ErrNoBatch is returned by Explain before any batch has been computed.
	ErrNoBatch = errors.New("no analysis batch computed yet")
)
