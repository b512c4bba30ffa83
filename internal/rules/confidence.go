package rules

import "github.com/wonny/compass/internal/contracts"

// minHighSample is the smallest sector population that supports HIGH
// confidence. Single- and two-member sectors still produce benchmarks, but
// a mean over so few peers is a weak anchor.
const minHighSample = 3

// Completeness describes which of a rule's possible inputs were actually
// present, plus the sector sample behind any benchmark it used.
type Completeness struct {
	Required         int  // number of required (primary) inputs
	Present          int  // how many of them were present
	SecondaryPresent bool // optional qualitative/sentiment input present
	SampleSize       int  // sector population behind the benchmark
	FallbackUsed     bool // rule fell back to a neutral score
}

// Annotate maps input completeness to a confidence level. Deterministic:
// identical input always yields the identical level.
//
//	HIGH:   all required inputs present, secondary present, sample >= 3
//	MEDIUM: primary input present but secondary missing, or small sample
//	LOW:    only a degraded/neutral fallback was used
func Annotate(c Completeness) contracts.Confidence {
	if c.FallbackUsed || c.Present == 0 {
		return contracts.ConfidenceLow
	}
	if c.Present >= c.Required && c.SecondaryPresent && c.SampleSize >= minHighSample {
		return contracts.ConfidenceHigh
	}
	return contracts.ConfidenceMedium
}
