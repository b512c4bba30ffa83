package rules

import (
	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/internal/normalize"
)

// ValuationRule scores the margin between current price and a fair-value
// estimate built from sector-normalized P/E and P/B plus a simple
// discounted-cash-flow proxy. It depends only on numeric fundamentals, so
// confidence is HIGH unless the sector benchmark itself was unavailable
// (then MEDIUM), or nothing was computable at all (LOW).
type ValuationRule struct{}

// dcfMultiple is the earnings-power multiple of the DCF proxy: fair value
// = EPS x multiple, i.e. a 8% required return with no growth assumption.
const dcfMultiple = 12.5

func (ValuationRule) Kind() contracts.RuleKind {
	return contracts.RuleValuation
}

func (ValuationRule) Evaluate(in Inputs) contracts.RuleResult {
	var components []float64
	benchmarkUsed := false

	if s, ok := normalize.Score(in.Stock.PER, in.Benchmark.MeanPER, normalize.LowerIsBetter); ok {
		components = append(components, s)
		benchmarkUsed = true
	}
	if s, ok := normalize.Score(in.Stock.PBR, in.Benchmark.MeanPBR, normalize.LowerIsBetter); ok {
		components = append(components, s)
		benchmarkUsed = true
	}
	if s, ok := dcfProxyScore(in.Stock); ok {
		components = append(components, s)
	}

	if len(components) == 0 {
		return contracts.RuleResult{
			Kind:       contracts.RuleValuation,
			Score:      neutralScore,
			Confidence: contracts.ConfidenceLow,
			Rationale:  "valuation not computable",
		}
	}

	score := 0.0
	for _, c := range components {
		score += c
	}
	score /= float64(len(components))

	conf := contracts.ConfidenceHigh
	rationale := "sector-relative valuation"
	switch {
	case !benchmarkUsed:
		conf = contracts.ConfidenceMedium
		rationale = "sector benchmark unavailable"
	case in.Benchmark.SampleSize < minHighSample:
		conf = contracts.ConfidenceMedium
		rationale = "small sector sample"
	}

	return contracts.RuleResult{
		Kind:       contracts.RuleValuation,
		Score:      score,
		Confidence: conf,
		Rationale:  rationale,
	}
}

// dcfProxyScore compares price to EPS x dcfMultiple. Needs positive EPS and
// a present price; otherwise not computable.
func dcfProxyScore(s contracts.StockFundamentals) (float64, bool) {
	if !s.EPS.Valid || !s.Price.Valid || s.EPS.Value <= 0 || s.Price.Value <= 0 {
		return 0, false
	}

	fair := s.EPS.Value * dcfMultiple
	margin := (fair - s.Price.Value) / fair * 100

	return 50 + clamp(margin, -50, 50), true
}
