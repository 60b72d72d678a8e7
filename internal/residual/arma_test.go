package residual

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simulateAR1 generates an AR(1) series with the given coefficient and
// unit-variance Gaussian innovations.
func simulateAR1(n int, phi float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for t := 1; t < n; t++ {
		x[t] = phi*x[t-1] + rng.NormFloat64()
	}
	return x
}

func TestFitRejectsInvalidOrder(t *testing.T) {
	x := simulateAR1(500, 0.5, 1)

	_, err := Fit(x, 0, 0, 0)
	assert.ErrorIs(t, err, ErrFit)

	_, err = Fit(x, -1, 0, 0)
	assert.ErrorIs(t, err, ErrFit)
}

func TestFitRejectsShortSeries(t *testing.T) {
	x := simulateAR1(40, 0.5, 1)
	_, err := Fit(x, 28, 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFit)
}

func TestFitAR1RecoversCoefficient(t *testing.T) {
	x := simulateAR1(4000, 0.6, 7)

	m, err := Fit(x, 1, 0, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, m.phi[0], 0.15)
	assert.InDelta(t, 1.0, m.Variance(), 0.3)
}

func TestFitARMA11(t *testing.T) {
	// x_t = 0.6 x_{t-1} + e_t + 0.4 e_{t-1}
	rng := rand.New(rand.NewSource(11))
	n := 5000
	x := make([]float64, n)
	prevE := 0.0
	for t := 1; t < n; t++ {
		e := rng.NormFloat64()
		x[t] = 0.6*x[t-1] + e + 0.4*prevE
		prevE = e
	}

	m, err := Fit(x, 1, 0, 1)
	require.NoError(t, err)

	// Hannan-Rissanen is consistent but noisy; broad bounds on purpose.
	assert.InDelta(t, 0.6, m.phi[0], 0.25)
	assert.InDelta(t, 0.4, m.theta[0], 0.3)
	assert.Greater(t, m.Variance(), 0.0)
}

func TestSimulateZeroStepsLeavesRngUntouched(t *testing.T) {
	x := simulateAR1(500, 0.5, 3)
	m, err := Fit(x, 1, 0, 0)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(99))
	path := m.Simulate(0, rng)
	assert.Empty(t, path)

	fresh := rand.New(rand.NewSource(99))
	assert.Equal(t, fresh.Float64(), rng.Float64())
}

func TestSimulateDeterministicForFixedSeed(t *testing.T) {
	x := simulateAR1(800, 0.5, 3)
	m, err := Fit(x, 2, 0, 0)
	require.NoError(t, err)

	a := m.Simulate(6, rand.New(rand.NewSource(42)))
	b := m.Simulate(6, rand.New(rand.NewSource(42)))
	require.Len(t, a, 6)
	assert.Equal(t, a, b)

	c := m.Simulate(6, rand.New(rand.NewSource(43)))
	assert.NotEqual(t, a, c)
}

func TestSimulateDoesNotMutateModel(t *testing.T) {
	x := simulateAR1(800, 0.5, 5)
	m, err := Fit(x, 2, 0, 0)
	require.NoError(t, err)

	tailBefore := append([]float64(nil), m.tailVals...)
	m.Simulate(10, rand.New(rand.NewSource(1)))
	assert.Equal(t, tailBefore, m.tailVals)
}

func TestDifferenceAndIntegrateRoundTrip(t *testing.T) {
	vals := []float64{10, 12, 15, 14, 18, 25}
	diffed, tails := difference(vals, 1)
	assert.Equal(t, []float64{2, 3, -1, 4, 7}, diffed)
	require.Equal(t, []float64{25}, tails)

	m := &Model{d: 1, diffTails: tails}
	levels := m.integrate([]float64{1, 2, -3})
	assert.Equal(t, []float64{26, 28, 25}, levels)
}

func TestFitWithDifferencingSimulatesLevels(t *testing.T) {
	// Random walk with AR(1) increments: fit on d=1.
	rng := rand.New(rand.NewSource(21))
	n := 2000
	incr := make([]float64, n)
	for t := 1; t < n; t++ {
		incr[t] = 0.4*incr[t-1] + rng.NormFloat64()
	}
	level := make([]float64, n)
	for t := 1; t < n; t++ {
		level[t] = level[t-1] + incr[t]
	}

	m, err := Fit(level, 1, 1, 0)
	require.NoError(t, err)

	path := m.Simulate(5, rand.New(rand.NewSource(2)))
	require.Len(t, path, 5)
	// Simulated values are levels continuing from the series end, so the
	// first step should land near the last observed level.
	assert.InDelta(t, level[n-1], path[0], 25)
}

func TestYuleWalkerExactOnDeterministicAR(t *testing.T) {
	// A long AR(1) sample pins the autocovariance ratio near phi.
	x := simulateAR1(20000, 0.7, 13)
	phi, err := yuleWalker(demean(x), 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, phi[0], 0.05)
}

func demean(x []float64) []float64 {
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v - mean
	}
	return out
}
