// Package rules implements the five per-stock rule evaluators. Each
// evaluator turns a fundamentals snapshot, its sector benchmark and an
// optional sentiment signal into one (sub-score, confidence) pair. Missing
// input degrades confidence, never execution: an evaluator always returns a
// RuleResult.
package rules

import "github.com/wonny/compass/internal/contracts"

// Inputs is everything an evaluator may consume for one stock. Evaluators
// read only their own slice of it; nothing here is mutated.
type Inputs struct {
	Stock     contracts.StockFundamentals
	Benchmark contracts.SectorBenchmark
	Sentiment contracts.Metric

	// Prior holds results of rules evaluated earlier in AllRuleKinds order.
	// Only the sell signal reads it.
	Prior map[contracts.RuleKind]contracts.RuleResult
}

// Evaluator is the common contract for the five rule variants.
type Evaluator interface {
	Kind() contracts.RuleKind
	Evaluate(in Inputs) contracts.RuleResult
}

// neutralScore is the degraded fallback sub-score when a rule has nothing
// to work with.
const neutralScore = 50.0

// All returns the five evaluators in evaluation order (sell signal last,
// since it derives from valuation and trend).
func All() []Evaluator {
	return []Evaluator{
		ClarityRule{},
		MoatRule{},
		ValuationRule{},
		TrendRule{},
		SellSignalRule{},
	}
}
