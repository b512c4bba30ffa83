package rules

import "github.com/wonny/compass/internal/contracts"

// TrendRule scores the long-term direction of earnings power from the
// historical EPS series. With fewer than two periods it degrades to a
// neutral score at LOW confidence rather than failing.
type TrendRule struct{}

// Periods needed for a slope at all, and for a HIGH-confidence one.
const (
	trendMinPeriods  = 2
	trendHighPeriods = 3

	// Score points per percent of average per-period EPS growth.
	trendGrowthSlope = 2.5
)

func (TrendRule) Kind() contracts.RuleKind {
	return contracts.RuleTrend
}

func (TrendRule) Evaluate(in Inputs) contracts.RuleResult {
	series := epsSeries(in.Stock)

	if len(series) < trendMinPeriods {
		return contracts.RuleResult{
			Kind:       contracts.RuleTrend,
			Score:      neutralScore,
			Confidence: contracts.ConfidenceLow,
			Rationale:  "single-period fundamentals",
		}
	}

	growth := avgGrowthPct(series)
	score := 50 + clamp(growth*trendGrowthSlope, -50, 50)

	conf := Annotate(Completeness{
		Required:         1,
		Present:          1,
		SecondaryPresent: len(series) >= trendHighPeriods,
		SampleSize:       in.Benchmark.SampleSize,
	})

	rationale := "multi-period earnings trend"
	if len(series) < trendHighPeriods {
		rationale = "short earnings history"
	}

	return contracts.RuleResult{
		Kind:       contracts.RuleTrend,
		Score:      score,
		Confidence: conf,
		Rationale:  rationale,
	}
}

// epsSeries returns the historical EPS values (oldest first) followed by
// the current period when present.
func epsSeries(s contracts.StockFundamentals) []float64 {
	var series []float64
	for _, p := range s.History {
		if p.EPS.Valid {
			series = append(series, p.EPS.Value)
		}
	}
	if s.EPS.Valid {
		series = append(series, s.EPS.Value)
	}
	return series
}

// avgGrowthPct is the mean per-period relative change in percent. Steps
// from a non-positive base are scored by sign only: the ratio would be
// meaningless.
func avgGrowthPct(series []float64) float64 {
	total := 0.0
	steps := 0

	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		if prev <= 0 {
			switch {
			case cur > prev:
				total += 20
			case cur < prev:
				total -= 20
			}
			steps++
			continue
		}
		total += (cur - prev) / prev * 100
		steps++
	}

	if steps == 0 {
		return 0
	}
	return total / float64(steps)
}
