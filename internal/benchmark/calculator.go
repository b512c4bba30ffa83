package benchmark

import (
	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/pkg/logger"
)

// Calculator derives per-sector benchmarks from the full loaded population.
// It requires the complete input set before emitting anything: partial or
// streaming views would skew the means.
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a benchmark calculator.
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log}
}

// accumulator collects running sums for one sector.
type accumulator struct {
	perSum, pbrSum, epsSum    float64
	perCount, pbrCount, count int
	epsCount                  int
}

// Compute groups stocks by sector and computes the arithmetic mean of P/E,
// P/B and EPS over present values. Stocks missing a field are excluded from
// that specific mean only, never from the sector. A mean with zero present
// values stays absent; downstream treats that as a reduced-confidence
// signal, not an error.
func (c *Calculator) Compute(stocks []contracts.StockFundamentals) contracts.BenchmarkSet {
	acc := make(map[string]*accumulator)

	for i := range stocks {
		s := &stocks[i]
		a, ok := acc[s.Sector]
		if !ok {
			a = &accumulator{}
			acc[s.Sector] = a
		}
		a.count++

		if s.PER.Valid {
			a.perSum += s.PER.Value
			a.perCount++
		}
		if s.PBR.Valid {
			a.pbrSum += s.PBR.Value
			a.pbrCount++
		}
		if s.EPS.Valid {
			a.epsSum += s.EPS.Value
			a.epsCount++
		}
	}

	set := make(contracts.BenchmarkSet, len(acc))
	for sector, a := range acc {
		set[sector] = contracts.SectorBenchmark{
			Sector:     sector,
			MeanPER:    mean(a.perSum, a.perCount),
			MeanPBR:    mean(a.pbrSum, a.pbrCount),
			MeanEPS:    mean(a.epsSum, a.epsCount),
			SampleSize: a.count,
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"stocks":  len(stocks),
		"sectors": len(set),
	}).Debug("Computed sector benchmarks")

	return set
}

func mean(sum float64, count int) contracts.Metric {
	if count == 0 {
		return contracts.Absent()
	}
	return contracts.NewMetric(sum / float64(count))
}
