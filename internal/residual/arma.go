// Package residual fits a stationary ARMA model to the trend model's
// forecast errors and generates simulated future error trajectories,
// anchored at the end of the training series.
package residual

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrFit is returned (wrapped) when the residual model cannot be
// estimated: series too short for the requested order, degenerate input,
// or a non-stationary fit.
var ErrFit = errors.New("residual: model fit failed")

// Model is a fitted ARMA(p,q) model on the d-times differenced series.
type Model struct {
	p, d, q  int
	phi      []float64 // AR coefficients
	theta    []float64 // MA coefficients
	mean     float64   // mean of the differenced series
	variance float64   // innovation variance

	// Anchor state: the end of the training series, conditioning every
	// simulated trajectory.
	tailVals  []float64 // last p demeaned differenced values, oldest first
	tailInnov []float64 // last q innovations, oldest first
	diffTails []float64 // last value of each differencing stage, for integration
}

// Fit estimates an ARMA(p,q) model on the series after differencing d
// times. Pure AR models are estimated by Yule-Walker; mixed models by the
// Hannan-Rissanen two-stage regression.
func Fit(vals []float64, p, d, q int) (*Model, error) {
	if p < 0 || d < 0 || q < 0 {
		return nil, fmt.Errorf("%w: negative order (p=%d, d=%d, q=%d)", ErrFit, p, d, q)
	}
	if p == 0 && q == 0 {
		return nil, fmt.Errorf("%w: order must include AR or MA terms", ErrFit)
	}

	work, diffTails := difference(vals, d)
	maxOrder := p
	if q > maxOrder {
		maxOrder = q
	}
	if len(work) < 3*maxOrder+10 {
		return nil, fmt.Errorf("%w: series of length %d is too short for order (%d,%d,%d)",
			ErrFit, len(vals), p, d, q)
	}

	mean := 0.0
	for _, v := range work {
		mean += v
	}
	mean /= float64(len(work))
	x := make([]float64, len(work))
	for i, v := range work {
		x[i] = v - mean
	}

	var phi, theta []float64
	var err error
	if q == 0 {
		phi, err = yuleWalker(x, p)
		theta = []float64{}
	} else {
		phi, theta, err = hannanRissanen(x, p, q)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFit, err)
	}
	if !isStable(phi, theta) {
		return nil, fmt.Errorf("%w: fitted AR component is non-stationary", ErrFit)
	}

	innov := innovations(x, phi, theta)
	variance := 0.0
	count := 0
	for t := maxOrder; t < len(innov); t++ {
		variance += innov[t] * innov[t]
		count++
	}
	if count == 0 || variance == 0 {
		return nil, fmt.Errorf("%w: degenerate innovation variance", ErrFit)
	}
	variance /= float64(count)

	m := &Model{
		p: p, d: d, q: q,
		phi:       phi,
		theta:     theta,
		mean:      mean,
		variance:  variance,
		diffTails: diffTails,
	}
	if p > 0 {
		m.tailVals = append([]float64(nil), x[len(x)-p:]...)
	}
	if q > 0 {
		m.tailInnov = append([]float64(nil), innov[len(innov)-q:]...)
	}
	return m, nil
}

// Simulate generates one stochastic trajectory of length steps continuing
// immediately after the training series, using Gaussian innovations with
// the estimated variance. steps == 0 returns an empty path without
// touching rng. The model itself is read-only during simulation; distinct
// calls share nothing but the caller-supplied rng.
func (m *Model) Simulate(steps int, rng *rand.Rand) []float64 {
	if steps == 0 {
		return []float64{}
	}

	vals := append([]float64(nil), m.tailVals...)
	innov := append([]float64(nil), m.tailInnov...)
	sigma := math.Sqrt(m.variance)

	out := make([]float64, steps)
	for t := 0; t < steps; t++ {
		e := rng.NormFloat64() * sigma
		v := e
		for i := 0; i < m.p; i++ {
			v += m.phi[i] * vals[len(vals)-1-i]
		}
		for j := 0; j < m.q; j++ {
			v += m.theta[j] * innov[len(innov)-1-j]
		}
		vals = append(vals, v)
		innov = append(innov, e)
		out[t] = v + m.mean
	}

	return m.integrate(out)
}

// Variance returns the estimated innovation variance.
func (m *Model) Variance() float64 { return m.variance }

// integrate undoes the d differencing passes, turning simulated increments
// back into level values.
func (m *Model) integrate(path []float64) []float64 {
	for stage := m.d - 1; stage >= 0; stage-- {
		level := m.diffTails[stage]
		for i, v := range path {
			level += v
			path[i] = level
		}
	}
	return path
}

// difference applies d differencing passes, recording the final value of
// each intermediate stage so simulations can be integrated back to
// levels.
func difference(vals []float64, d int) (diffed []float64, tails []float64) {
	cur := append([]float64(nil), vals...)
	tails = make([]float64, 0, d)
	for i := 0; i < d; i++ {
		if len(cur) < 2 {
			return nil, tails
		}
		tails = append(tails, cur[len(cur)-1])
		next := make([]float64, len(cur)-1)
		for j := 1; j < len(cur); j++ {
			next[j-1] = cur[j] - cur[j-1]
		}
		cur = next
	}
	return cur, tails
}

// innovations runs the one-step prediction recursion over the demeaned
// series with zero presample innovations.
func innovations(x []float64, phi, theta []float64) []float64 {
	e := make([]float64, len(x))
	for t := range x {
		v := x[t]
		for i := 0; i < len(phi) && i < t; i++ {
			v -= phi[i] * x[t-1-i]
		}
		for j := 0; j < len(theta) && j < t; j++ {
			v -= theta[j] * e[t-1-j]
		}
		e[t] = v
	}
	return e
}

// isStable checks the fitted model's psi weights: for a stationary AR
// polynomial they decay, for an explosive one they grow without bound.
func isStable(phi, theta []float64) bool {
	const horizon = 200
	psi := make([]float64, horizon+1)
	psi[0] = 1
	for k := 1; k <= horizon; k++ {
		v := 0.0
		if k <= len(theta) {
			v = theta[k-1]
		}
		for i := 1; i <= len(phi) && i <= k; i++ {
			v += phi[i-1] * psi[k-i]
		}
		psi[k] = v
		if math.Abs(v) > 1e4 || math.IsNaN(v) {
			return false
		}
	}
	return true
}
