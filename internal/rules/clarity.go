package rules

import "github.com/wonny/compass/internal/contracts"

// ClarityRule scores how well the business can be understood from the data
// at hand: completeness of the fundamentals snapshot plus the quality of
// its sector classification. It needs nothing beyond the snapshot itself,
// so its confidence is HIGH by construction.
type ClarityRule struct{}

// Weighting inside the clarity score.
const (
	clarityCompletenessWeight = 0.8
	claritySectorWeight       = 0.2
)

func (ClarityRule) Kind() contracts.RuleKind {
	return contracts.RuleClarity
}

func (ClarityRule) Evaluate(in Inputs) contracts.RuleResult {
	metrics := in.Stock.Metrics()
	present := in.Stock.PresentMetricCount()
	completeness := float64(present) / float64(len(metrics))

	sectorQuality := 0.0
	if in.Stock.Sector != "" {
		sectorQuality = 1.0
	}

	score := (completeness*clarityCompletenessWeight + sectorQuality*claritySectorWeight) * 100

	rationale := "fundamentals snapshot complete"
	switch {
	case present == 0:
		rationale = "no fundamentals supplied"
	case present < len(metrics):
		rationale = "partial fundamentals snapshot"
	}
	if in.Stock.Sector == "" {
		rationale = "sector classification missing"
	}

	return contracts.RuleResult{
		Kind:       contracts.RuleClarity,
		Score:      score,
		Confidence: contracts.ConfidenceHigh,
		Rationale:  rationale,
	}
}
