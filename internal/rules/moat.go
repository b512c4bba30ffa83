package rules

import "github.com/wonny/compass/internal/contracts"

// MoatRule scores durable-advantage indicators: an ROE stability proxy, a
// margin stability proxy from ROA, and an optional sentiment trend.
// Confidence is MEDIUM unless both the financial and sentiment signals are
// present (then it may reach HIGH), and LOW when the financial data alone
// is too thin.
type MoatRule struct{}

// Score anchors. ROE around 10% and ROA around 5% are the neutral points;
// steeper slopes would saturate the clamp on ordinary large caps.
const (
	moatROEAnchor = 10.0
	moatROESlope  = 5.0
	moatROAAnchor = 5.0
	moatROASlope  = 8.0

	// Penalty cap for ROE swinging across historical periods.
	moatStabilityPenaltyMax = 20.0
)

func (MoatRule) Kind() contracts.RuleKind {
	return contracts.RuleMoat
}

func (MoatRule) Evaluate(in Inputs) contracts.RuleResult {
	var components []float64
	financialPresent := 0

	if in.Stock.ROE.Valid {
		components = append(components, roeStabilityScore(in.Stock))
		financialPresent++
	}
	if in.Stock.ROA.Valid {
		components = append(components, 50+clamp((in.Stock.ROA.Value-moatROAAnchor)*moatROASlope, -50, 50))
		financialPresent++
	}
	if in.Sentiment.Valid {
		// Sentiment scalar is in [-1, 1].
		components = append(components, 50+clamp(in.Sentiment.Value*50, -50, 50))
	}

	if financialPresent == 0 {
		return contracts.RuleResult{
			Kind:       contracts.RuleMoat,
			Score:      neutralScore,
			Confidence: contracts.ConfidenceLow,
			Rationale:  "insufficient moat data",
		}
	}

	score := 0.0
	for _, c := range components {
		score += c
	}
	score /= float64(len(components))

	conf := Annotate(Completeness{
		Required:         2,
		Present:          financialPresent,
		SecondaryPresent: in.Sentiment.Valid,
		SampleSize:       in.Benchmark.SampleSize,
	})

	rationale := "financial and sentiment signals present"
	if !in.Sentiment.Valid {
		rationale = "sentiment signal missing"
	} else if financialPresent < 2 {
		rationale = "partial profitability data"
	}

	return contracts.RuleResult{
		Kind:       contracts.RuleMoat,
		Score:      score,
		Confidence: conf,
		Rationale:  rationale,
	}
}

// roeStabilityScore anchors the current ROE and penalizes historical swing
// when multi-period data is available.
func roeStabilityScore(s contracts.StockFundamentals) float64 {
	base := 50 + clamp((s.ROE.Value-moatROEAnchor)*moatROESlope, -50, 50)

	var values []float64
	for _, p := range s.History {
		if p.ROE.Valid {
			values = append(values, p.ROE.Value)
		}
	}
	if len(values) < 2 {
		return base
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	maxDev := 0.0
	for _, v := range values {
		if d := abs(v - mean); d > maxDev {
			maxDev = d
		}
	}

	return clamp(base-clamp(maxDev*2, 0, moatStabilityPenaltyMax), 0, 100)
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

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
