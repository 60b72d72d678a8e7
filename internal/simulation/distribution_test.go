package simulation

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbabilityAboveEmptyDistribution(t *testing.T) {
	_, err := ProbabilityAbove(Distribution{}, 10)
	assert.ErrorIs(t, err, ErrEmptyDistribution)
}

func TestProbabilityAboveCounts(t *testing.T) {
	dist := Distribution{1, 2, 3, 4}

	theo, err := ProbabilityAbove(dist, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 50, theo)

	// Strictly-above comparison: a draw equal to the threshold does not count.
	theo, err = ProbabilityAbove(dist, 2)
	require.NoError(t, err)
	assert.Equal(t, 50, theo)

	theo, err = ProbabilityAbove(dist, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, theo)

	theo, err = ProbabilityAbove(dist, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, theo)
}

func TestProbabilityAboveRounding(t *testing.T) {
	dist := Distribution{1, 1, 1, 0, 0, 0, 0} // 3 of 7 above 0.5 = 42.857%
	theo, err := ProbabilityAbove(dist, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 43, theo)
}

func TestProbabilityAboveMonotoneInThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	dist := make(Distribution, 1000)
	for i := range dist {
		dist[i] = rng.NormFloat64() * 100
	}

	thresholds := []float64{-300, -100, -10, 0, 10, 100, 300}
	prev := 101
	for _, th := range thresholds {
		theo, err := ProbabilityAbove(dist, th)
		require.NoError(t, err)
		assert.LessOrEqual(t, theo, prev, "threshold %g", th)
		assert.GreaterOrEqual(t, theo, 0)
		assert.LessOrEqual(t, theo, 100)
		prev = theo
	}
}

func TestPercentile(t *testing.T) {
	dist := Distribution{40, 10, 30, 20}

	p0, err := dist.Percentile(0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, p0)

	p100, err := dist.Percentile(100)
	require.NoError(t, err)
	assert.Equal(t, 40.0, p100)

	p50, err := dist.Percentile(50)
	require.NoError(t, err)
	assert.Equal(t, 25.0, p50)

	_, err = dist.Percentile(101)
	require.Error(t, err)

	_, err = Distribution{}.Percentile(50)
	assert.ErrorIs(t, err, ErrEmptyDistribution)
}

func TestPercentileDoesNotReorderDistribution(t *testing.T) {
	dist := Distribution{40, 10, 30, 20}
	_, err := dist.Percentile(50)
	require.NoError(t, err)
	assert.False(t, sort.Float64sAreSorted(dist))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 25.0, Distribution{10, 20, 30, 40}.Mean())
	assert.Equal(t, 0.0, Distribution{}.Mean())
}
