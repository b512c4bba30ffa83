// Package normalize maps a raw per-stock metric plus its sector benchmark
// onto a bounded, directionally consistent 0..100 score.
package normalize

import (
	"math"

	"github.com/wonny/compass/internal/contracts"
)

// Direction flags which way a metric is better.
type Direction int

const (
	// LowerIsBetter applies to valuation multiples such as P/E and P/B.
	LowerIsBetter Direction = iota
	// HigherIsBetter applies to earnings metrics such as EPS and ROE.
	HigherIsBetter
)

// benchmarkEpsilon guards division by a zero or near-zero sector mean.
const benchmarkEpsilon = 1e-9

// Score normalizes a raw metric against its sector benchmark:
//
//	50 + clamp((benchmark-value)/benchmark*100, -50, +50)
//
// for lower-is-better metrics, mirrored for higher-is-better, so the score
// is symmetric around the sector mean and always within [0, 100].
//
// Returns ok=false when the value is absent, the benchmark is unavailable,
// or the benchmark is too close to zero to divide by. Callers must branch
// on ok explicitly; there is no numeric default for "not computable".
func Score(value, benchmark contracts.Metric, dir Direction) (float64, bool) {
	if !value.Valid || !benchmark.Valid {
		return 0, false
	}
	if math.Abs(benchmark.Value) < benchmarkEpsilon {
		return 0, false
	}

	rel := (benchmark.Value - value.Value) / benchmark.Value * 100
	if dir == HigherIsBetter {
		rel = (value.Value - benchmark.Value) / benchmark.Value * 100
	}

	return 50 + clamp(rel, -50, 50), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
