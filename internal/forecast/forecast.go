// Package forecast fits an additive trend, weekly and yearly seasonality
// and holiday-effect model to the daily series and produces point
// forecasts. In-sample fitted values double as the baseline for the
// residual process model.
package forecast

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/your-org/kalshi-tsa-bot/internal/series"
)

// ErrInsufficientData is returned when the training window is too short to
// estimate the trend and seasonal effects.
var ErrInsufficientData = errors.New("forecast: insufficient training data")

// Config holds the model's structural parameters.
type Config struct {
	MinObservations    int // floor on training window length
	YearlyFourierOrder int // Fourier pairs for the yearly component
}

// defaults applied when a zero Config is passed.
const (
	defaultMinObservations = 180
	defaultFourierOrder    = 10
)

// Model is a fitted trend/seasonality model.
type Model struct {
	cfg       Config
	dates     []time.Time
	actual    []float64
	fitted    []float64
	coef      []float64
	holidays  []string // holiday columns present in the training window
	trendBase time.Time
}

// Fit estimates the model on the given training window by ordinary least
// squares. The window must be ascending by date.
func Fit(window []series.Point, cfg Config) (*Model, error) {
	if cfg.MinObservations == 0 {
		cfg.MinObservations = defaultMinObservations
	}
	if cfg.YearlyFourierOrder == 0 {
		cfg.YearlyFourierOrder = defaultFourierOrder
	}

	if len(window) < cfg.MinObservations {
		return nil, fmt.Errorf("%w: have %d observations, need at least %d",
			ErrInsufficientData, len(window), cfg.MinObservations)
	}

	m := &Model{
		cfg:       cfg,
		trendBase: window[0].Date,
	}
	m.dates = make([]time.Time, len(window))
	m.actual = make([]float64, len(window))
	for i, p := range window {
		m.dates[i] = p.Date
		m.actual[i] = p.Value
	}
	m.holidays = observedHolidays(m.dates)

	rows := make([][]float64, len(m.dates))
	for i, d := range m.dates {
		rows[i] = m.featureRow(d)
	}

	coef, err := solveLeastSquares(rows, m.actual)
	if err != nil {
		return nil, fmt.Errorf("failed to fit trend model: %w", err)
	}
	m.coef = coef

	m.fitted = make([]float64, len(rows))
	for i, row := range rows {
		m.fitted[i] = dot(coef, row)
	}
	return m, nil
}

// Forecast returns one point per date from the training start through
// horizonDays past the last training date. In-sample dates carry the
// fitted values; the tail is the out-of-sample trend forecast. Values are
// not clipped and may be negative.
func (m *Model) Forecast(horizonDays int) []series.Point {
	out := make([]series.Point, 0, len(m.dates)+horizonDays)
	for i, d := range m.dates {
		out = append(out, series.Point{Date: d, Value: m.fitted[i]})
	}
	last := m.dates[len(m.dates)-1]
	for i := 1; i <= horizonDays; i++ {
		d := last.AddDate(0, 0, i)
		out = append(out, series.Point{Date: d, Value: dot(m.coef, m.featureRow(d))})
	}
	return out
}

// FutureTrend returns only the out-of-sample forecast values for the
// horizonDays dates after the training window.
func (m *Model) FutureTrend(horizonDays int) []float64 {
	full := m.Forecast(horizonDays)
	out := make([]float64, horizonDays)
	for i := 0; i < horizonDays; i++ {
		out[i] = full[len(full)-horizonDays+i].Value
	}
	return out
}

// Residuals returns fitted − actual for every training date, in training
// order. This is the fitting input of the residual process model.
func (m *Model) Residuals() []float64 {
	out := make([]float64, len(m.actual))
	for i := range m.actual {
		out[i] = m.fitted[i] - m.actual[i]
	}
	return out
}

// observedHolidays lists the holiday names that occur at least once in the
// training dates. Holidays absent from the window get no column; an
// all-zero column would make the normal equations singular.
func observedHolidays(dates []time.Time) []string {
	seen := map[string]bool{}
	for _, d := range dates {
		if name, ok := holidayName(d); ok {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
