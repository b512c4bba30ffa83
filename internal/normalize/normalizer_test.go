package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/compass/internal/contracts"
)

func TestScore_AtBenchmarkIsNeutral(t *testing.T) {
	s, ok := Score(contracts.NewMetric(12), contracts.NewMetric(12), LowerIsBetter)
	require.True(t, ok)
	assert.Equal(t, 50.0, s)

	s, ok = Score(contracts.NewMetric(12), contracts.NewMetric(12), HigherIsBetter)
	require.True(t, ok)
	assert.Equal(t, 50.0, s)
}

func TestScore_Direction(t *testing.T) {
	// Half the sector mean P/E is cheap: better under LowerIsBetter.
	s, ok := Score(contracts.NewMetric(5), contracts.NewMetric(10), LowerIsBetter)
	require.True(t, ok)
	assert.Equal(t, 100.0, s)

	// The same value under HigherIsBetter mirrors below neutral.
	s, ok = Score(contracts.NewMetric(5), contracts.NewMetric(10), HigherIsBetter)
	require.True(t, ok)
	assert.Equal(t, 0.0, s)
}

func TestScore_Bounded(t *testing.T) {
	// Extreme inputs must clamp, never leave [0, 100].
	cases := []struct {
		value, benchmark float64
		dir              Direction
	}{
		{1e9, 10, LowerIsBetter},
		{-1e9, 10, LowerIsBetter},
		{1e9, 10, HigherIsBetter},
		{-1e9, 10, HigherIsBetter},
		{0.0001, 1e9, LowerIsBetter},
	}

	for _, c := range cases {
		s, ok := Score(contracts.NewMetric(c.value), contracts.NewMetric(c.benchmark), c.dir)
		require.True(t, ok)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
}

func TestScore_NotComputable(t *testing.T) {
	_, ok := Score(contracts.Absent(), contracts.NewMetric(10), LowerIsBetter)
	assert.False(t, ok, "absent value")

	_, ok = Score(contracts.NewMetric(10), contracts.Absent(), LowerIsBetter)
	assert.False(t, ok, "absent benchmark")

	_, ok = Score(contracts.NewMetric(10), contracts.NewMetric(0), LowerIsBetter)
	assert.False(t, ok, "zero benchmark")

	_, ok = Score(contracts.NewMetric(10), contracts.NewMetric(1e-12), LowerIsBetter)
	assert.False(t, ok, "benchmark below epsilon")
}
