package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/compass/internal/contracts"
)

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name string
		c    Completeness
		want contracts.Confidence
	}{
		{
			name: "all inputs present with healthy sample",
			c:    Completeness{Required: 2, Present: 2, SecondaryPresent: true, SampleSize: 5},
			want: contracts.ConfidenceHigh,
		},
		{
			name: "secondary missing",
			c:    Completeness{Required: 2, Present: 2, SecondaryPresent: false, SampleSize: 5},
			want: contracts.ConfidenceMedium,
		},
		{
			name: "sample below the high cut",
			c:    Completeness{Required: 2, Present: 2, SecondaryPresent: true, SampleSize: 2},
			want: contracts.ConfidenceMedium,
		},
		{
			name: "partial primary inputs",
			c:    Completeness{Required: 2, Present: 1, SecondaryPresent: true, SampleSize: 5},
			want: contracts.ConfidenceMedium,
		},
		{
			name: "nothing present",
			c:    Completeness{Required: 2, Present: 0, SecondaryPresent: true, SampleSize: 5},
			want: contracts.ConfidenceLow,
		},
		{
			name: "neutral fallback used",
			c:    Completeness{Required: 2, Present: 2, SecondaryPresent: true, SampleSize: 5, FallbackUsed: true},
			want: contracts.ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Annotate(tt.c))
		})
	}
}

// Removing an input can never raise confidence.
func TestAnnotate_MonotoneInCompleteness(t *testing.T) {
	full := Completeness{Required: 2, Present: 2, SecondaryPresent: true, SampleSize: 5}
	base := Annotate(full)

	degraded := []Completeness{
		{Required: 2, Present: 1, SecondaryPresent: true, SampleSize: 5},
		{Required: 2, Present: 2, SecondaryPresent: false, SampleSize: 5},
		{Required: 2, Present: 2, SecondaryPresent: true, SampleSize: 1},
		{Required: 2, Present: 0, SecondaryPresent: false, SampleSize: 0},
	}

	for _, c := range degraded {
		got := Annotate(c)
		assert.True(t, got.Min(base) == got, "degraded input %+v yielded %s above %s", c, got, base)
	}
}
