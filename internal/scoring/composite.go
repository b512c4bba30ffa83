package scoring

import (
	"github.com/wonny/compass/internal/contracts"
)

// Scorer combines the five rule results into one composite score and a
// categorical recommendation. The overall score is a function solely of the
// rule results and the configured weight table.
type Scorer struct {
	cfg Config
}

// insufficientLowCount is the "majority LOW" cut: with three of five rules
// at LOW confidence the composite is labeled INSUFFICIENT_DATA regardless
// of its numeric value.
const insufficientLowCount = 3

// NewScorer creates a scorer for a validated config.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes overall = sum(w_i * s_i * m_i) / sum(w_i * m_i), where m
// is the confidence multiplier. The renormalization keeps the result in
// [0, 100] even when several rules are low-confidence.
func (s *Scorer) Score(ticker, sector string, results []contracts.RuleResult) contracts.CompositeScore {
	num := 0.0
	den := 0.0

	for _, r := range results {
		w := s.weightFor(r.Kind)
		m := s.multiplierFor(r.Confidence)
		num += w * r.Score * m
		den += w * m
	}

	overall := 0.0
	if den > 0 {
		overall = num / den
	}

	composite := contracts.CompositeScore{
		Ticker:  ticker,
		Sector:  sector,
		Overall: overall,
		Rules:   results,
	}
	composite.Recommendation = s.recommend(&composite)

	return composite
}

func (s *Scorer) weightFor(kind contracts.RuleKind) float64 {
	switch kind {
	case contracts.RuleClarity:
		return s.cfg.Weights.Clarity
	case contracts.RuleMoat:
		return s.cfg.Weights.Moat
	case contracts.RuleValuation:
		return s.cfg.Weights.Valuation
	case contracts.RuleTrend:
		return s.cfg.Weights.Trend
	case contracts.RuleSellSignal:
		return s.cfg.Weights.SellSignal
	}
	return 0
}

func (s *Scorer) multiplierFor(c contracts.Confidence) float64 {
	switch c {
	case contracts.ConfidenceHigh:
		return s.cfg.Multipliers.High
	case contracts.ConfidenceMedium:
		return s.cfg.Multipliers.Medium
	default:
		return s.cfg.Multipliers.Low
	}
}

// recommend maps the overall score to a category. A majority of LOW
// confidence rules overrides the numeric bands: the number is not
// trustworthy enough to act on.
func (s *Scorer) recommend(c *contracts.CompositeScore) contracts.Recommendation {
	if c.LowConfidenceCount() >= insufficientLowCount {
		return contracts.RecommendInsufficientData
	}

	t := s.cfg.Thresholds
	switch {
	case c.Overall >= t.StrongBuy:
		return contracts.RecommendStrongBuy
	case c.Overall >= t.Hold:
		return contracts.RecommendHold
	case c.Overall >= t.Caution:
		return contracts.RecommendOvervalued
	default:
		return contracts.RecommendInsufficientData
	}
}
