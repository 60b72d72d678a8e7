package datastore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/your-org/kalshi-tsa-bot/internal/series"
	"github.com/your-org/kalshi-tsa-bot/internal/simulation"
)

// InMemRepository is an in-memory stand-in for Repository, used by tests
// and dry runs.
type InMemRepository struct {
	mu     sync.Mutex
	points map[string]series.Point
	sims   map[string][][]float64
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		points: make(map[string]series.Point),
		sims:   make(map[string][][]float64),
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (r *InMemRepository) FetchSeries(_ context.Context) ([]series.Point, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]series.Point, 0, len(r.points))
	for _, p := range r.points {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func (r *InMemRepository) UpsertPoints(_ context.Context, points []series.Point) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var inserted int64
	for _, p := range points {
		key := dateKey(p.Date)
		if _, exists := r.points[key]; exists {
			continue
		}
		r.points[key] = p
		inserted++
	}
	return inserted, nil
}

func (r *InMemRepository) CreateSimsTable(_ context.Context, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := simsTableName(cutoff)
	if _, exists := r.sims[name]; !exists {
		r.sims[name] = nil
	}
	return nil
}

func (r *InMemRepository) InsertSims(_ context.Context, cutoff time.Time, daily [][]float64) (int64, error) {
	for i, row := range daily {
		if len(row) != simulation.PeriodDays {
			return 0, fmt.Errorf("simulation row %d has %d values, want %d", i, len(row), simulation.PeriodDays)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := simsTableName(cutoff)
	r.sims[name] = append(r.sims[name], daily...)
	return int64(len(daily)), nil
}

func (r *InMemRepository) FetchSims(_ context.Context, cutoff time.Time) ([][]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.sims[simsTableName(cutoff)]
	if len(stored) == 0 {
		return nil, nil
	}
	// Copied row by row so callers cannot mutate the stored batch.
	out := make([][]float64, len(stored))
	for i, row := range stored {
		out[i] = append([]float64(nil), row...)
	}
	return out, nil
}

func (r *InMemRepository) Close() {}
