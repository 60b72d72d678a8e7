package simulation

import (
	"fmt"
	"math"
	"sort"
)

// Distribution is the empirical distribution of simulated period
// averages. It is built once per cycle and read-only afterwards.
type Distribution []float64

// ProbabilityAbove returns the rounded percentage of draws strictly above
// the threshold, in [0,100]. Deterministic for a fixed distribution and
// monotone non-increasing in the threshold.
func ProbabilityAbove(dist Distribution, threshold float64) (int, error) {
	if len(dist) == 0 {
		return 0, ErrEmptyDistribution
	}
	count := 0
	for _, v := range dist {
		if v > threshold {
			count++
		}
	}
	return int(math.Round(100 * float64(count) / float64(len(dist)))), nil
}

// Mean returns the average of the distribution.
func (d Distribution) Mean() float64 {
	if len(d) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range d {
		sum += v
	}
	return sum / float64(len(d))
}

// Percentile returns the pct-th percentile (0-100) with linear
// interpolation between order statistics.
func (d Distribution) Percentile(pct float64) (float64, error) {
	if len(d) == 0 {
		return 0, ErrEmptyDistribution
	}
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("percentile must be in [0,100], got %g", pct)
	}
	sorted := append([]float64(nil), d...)
	sort.Float64s(sorted)

	pos := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac, nil
}
