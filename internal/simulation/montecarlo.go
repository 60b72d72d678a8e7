// Package simulation builds the Monte Carlo distribution of period-end
// averages: realized daily values plus simulated futures (trend forecast
// minus a simulated residual trajectory), reduced to one scalar per draw.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/your-org/kalshi-tsa-bot/internal/series"
	"github.com/your-org/kalshi-tsa-bot/pkg/calendar"
)

// PeriodDays is the fixed length of a settlement period.
const PeriodDays = 7

var (
	// ErrPeriodAlignment flags inconsistent cutoff/boundary/realized-value
	// inputs. This is a caller bug and is never silently corrected.
	ErrPeriodAlignment = errors.New("simulation: inputs do not align to one settlement period")

	// ErrEmptyDistribution flags a zero-draw configuration or an empty
	// distribution handed to the estimator.
	ErrEmptyDistribution = errors.New("simulation: empty distribution")
)

// PathSimulator produces one stochastic residual trajectory per call.
// residual.Model satisfies it.
type PathSimulator interface {
	Simulate(steps int, rng *rand.Rand) []float64
}

// Params describes one Monte Carlo run.
type Params struct {
	Trend          []float64 // out-of-sample daily trend forecast, one per remaining day
	Simulator      PathSimulator
	Realized       []float64 // realized daily values since the period reset
	CutoffDate     time.Time
	PeriodBoundary time.Time
	Draws          int
	Seed           int64
	Workers        int
}

// Result is one completed run. Daily holds the full period per draw,
// realized days first then simulated days, always PeriodDays wide.
// Distribution holds the row means.
type Result struct {
	Daily        [][]float64
	Distribution Distribution
}

// Run produces the distribution of simulated period averages.
func Run(ctx context.Context, p Params) (Distribution, error) {
	res, err := RunDetailed(ctx, p)
	if err != nil {
		return nil, err
	}
	return res.Distribution, nil
}

// RunDetailed produces the per-draw daily matrix alongside the
// distribution of period averages. Draw i always uses the rng stream
// derived from (Seed, i) and lands at row i, so the result is
// bit-identical for any worker count. A cancelled or expired context
// aborts the whole run: no partial distribution is ever returned.
func RunDetailed(ctx context.Context, p Params) (*Result, error) {
	if p.Draws < 1 {
		return nil, fmt.Errorf("%w: draws=%d", ErrEmptyDistribution, p.Draws)
	}

	// A cutoff on the reset day settles the old period and opens a fresh
	// one: all PeriodDays remain and Realized must be empty, which the
	// sum check below enforces.
	daysRemaining := calendar.DaysRemaining(p.CutoffDate, p.PeriodBoundary)
	if daysRemaining < 0 || daysRemaining > PeriodDays {
		return nil, fmt.Errorf("%w: %d days between cutoff %s and boundary %s",
			ErrPeriodAlignment, daysRemaining,
			p.CutoffDate.Format("2006-01-02"), p.PeriodBoundary.Format("2006-01-02"))
	}
	if len(p.Realized)+daysRemaining != PeriodDays {
		return nil, fmt.Errorf("%w: %d realized days + %d remaining days != %d",
			ErrPeriodAlignment, len(p.Realized), daysRemaining, PeriodDays)
	}

	// Period already complete: a degenerate distribution, no sampling.
	if daysRemaining == 0 {
		mean := series.Mean(p.Realized)
		res := &Result{
			Daily:        make([][]float64, p.Draws),
			Distribution: make(Distribution, p.Draws),
		}
		for i := range res.Distribution {
			row := make([]float64, PeriodDays)
			copy(row, p.Realized)
			res.Daily[i] = row
			res.Distribution[i] = mean
		}
		return res, nil
	}

	if len(p.Trend) != daysRemaining {
		return nil, fmt.Errorf("%w: trend forecast has %d days, need %d",
			ErrPeriodAlignment, len(p.Trend), daysRemaining)
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	res := &Result{
		Daily:        make([][]float64, p.Draws),
		Distribution: make(Distribution, p.Draws),
	}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	realizedDays := len(p.Realized)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < p.Draws; i += workers {
				if ctx.Err() != nil {
					return
				}
				rng := rand.New(rand.NewSource(p.Seed + int64(i)))
				path := p.Simulator.Simulate(daysRemaining, rng)
				if len(path) != daysRemaining {
					fail(fmt.Errorf("simulator returned %d steps, want %d", len(path), daysRemaining))
					return
				}

				row := make([]float64, PeriodDays)
				copy(row, p.Realized)
				sum := 0.0
				for _, v := range p.Realized {
					sum += v
				}
				for j := 0; j < daysRemaining; j++ {
					v := p.Trend[j] - path[j]
					row[realizedDays+j] = v
					sum += v
				}
				res.Daily[i] = row
				res.Distribution[i] = sum / PeriodDays
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("simulation aborted: %w", err)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return res, nil
}

// FromDailyRows rebuilds the distribution of period averages from a
// stored daily matrix. Every row must be PeriodDays wide.
func FromDailyRows(rows [][]float64) (Distribution, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDistribution
	}
	dist := make(Distribution, len(rows))
	for i, row := range rows {
		if len(row) != PeriodDays {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d",
				ErrPeriodAlignment, i, len(row), PeriodDays)
		}
		dist[i] = series.Mean(row)
	}
	return dist, nil
}
