package contracts

// RuleKind identifies one of the five analytical dimensions evaluated per
// stock. The order of AllRuleKinds is the evaluation and presentation order.
type RuleKind string

const (
	RuleClarity    RuleKind = "business_clarity"
	RuleMoat       RuleKind = "moat_indicators"
	RuleValuation  RuleKind = "valuation_margin"
	RuleTrend      RuleKind = "long_term_trend"
	RuleSellSignal RuleKind = "sell_signal"
)

// AllRuleKinds returns the five rule kinds in evaluation order. The sell
// signal comes last because it derives from valuation and trend.
func AllRuleKinds() []RuleKind {
	return []RuleKind{RuleClarity, RuleMoat, RuleValuation, RuleTrend, RuleSellSignal}
}

// Confidence is the discrete trust tag attached to each sub-score. It
// surfaces data-quality problems to the caller instead of raising errors.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// rank orders confidence levels for Min comparisons.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Min returns the lower of two confidence levels.
func (c Confidence) Min(other Confidence) Confidence {
	if other.rank() < c.rank() {
		return other
	}
	return c
}

// RuleResult is the immutable output of one rule evaluator for one stock.
type RuleResult struct {
	Kind       RuleKind   `json:"kind"`
	Score      float64    `json:"score"` // 0..100
	Confidence Confidence `json:"confidence"`
	Rationale  string     `json:"rationale"`
}

// Recommendation is the categorical outcome derived from the overall score.
type Recommendation string

const (
	RecommendStrongBuy        Recommendation = "STRONG_BUY"
	RecommendHold             Recommendation = "HOLD"
	RecommendOvervalued       Recommendation = "OVERVALUED"
	RecommendInsufficientData Recommendation = "INSUFFICIENT_DATA"
)

// CompositeScore is the confidence-weighted combination of the five rule
// results for one stock. Overall is a function solely of Rules and the
// configured weight table; there is no hidden state.
type CompositeScore struct {
	Ticker         string         `json:"ticker"`
	Sector         string         `json:"sector"`
	Overall        float64        `json:"overall"` // 0..100
	Rules          []RuleResult   `json:"rules"`   // fixed order, see AllRuleKinds
	Recommendation Recommendation `json:"recommendation"`
}

// Rule returns the result for one kind.
func (c *CompositeScore) Rule(kind RuleKind) (RuleResult, bool) {
	for _, r := range c.Rules {
		if r.Kind == kind {
			return r, true
		}
	}
	return RuleResult{}, false
}

// HighConfidenceCount returns how many rules carry HIGH confidence. Used as
// the first ranking tie-break.
func (c *CompositeScore) HighConfidenceCount() int {
	n := 0
	for _, r := range c.Rules {
		if r.Confidence == ConfidenceHigh {
			n++
		}
	}
	return n
}

// LowConfidenceCount returns how many rules carry LOW confidence.
func (c *CompositeScore) LowConfidenceCount() int {
	n := 0
	for _, r := range c.Rules {
		if r.Confidence == ConfidenceLow {
			n++
		}
	}
	return n
}

// RankedEntry is one position in a sector ranking. Entries below the top-N
// cut stay in the result set with Selected=false; nothing is dropped.
type RankedEntry struct {
	Ticker   string         `json:"ticker"`
	Sector   string         `json:"sector"`
	Rank     int            `json:"rank"` // 1-based within the sector
	Selected bool           `json:"selected"`
	Score    CompositeScore `json:"score"`
}
