package rules

import "github.com/wonny/compass/internal/contracts"

// SellSignalRule blends the valuation margin with the long-term trend
// direction into a hold/sell pressure score. It is derived, so its
// confidence is capped at the minimum of the two rules it reads; it is
// never independently HIGH.
type SellSignalRule struct{}

// Blend weights: valuation dominates, trend tilts.
const (
	sellValuationWeight = 0.6
	sellTrendWeight     = 0.4
)

func (SellSignalRule) Kind() contracts.RuleKind {
	return contracts.RuleSellSignal
}

func (SellSignalRule) Evaluate(in Inputs) contracts.RuleResult {
	valuation, okV := in.Prior[contracts.RuleValuation]
	trend, okT := in.Prior[contracts.RuleTrend]

	if !okV || !okT {
		// Evaluation order guarantees both exist; a missing prior means the
		// caller skipped stages, so degrade instead of guessing.
		return contracts.RuleResult{
			Kind:       contracts.RuleSellSignal,
			Score:      neutralScore,
			Confidence: contracts.ConfidenceLow,
			Rationale:  "derived inputs unavailable",
		}
	}

	score := valuation.Score*sellValuationWeight + trend.Score*sellTrendWeight
	conf := valuation.Confidence.Min(trend.Confidence)

	rationale := "hold"
	switch {
	case score < 35:
		rationale = "overvalued with weak trend"
	case score >= 65:
		rationale = "undervalued with supportive trend"
	}

	return contracts.RuleResult{
		Kind:       contracts.RuleSellSignal,
		Score:      score,
		Confidence: conf,
		Rationale:  rationale,
	}
}
