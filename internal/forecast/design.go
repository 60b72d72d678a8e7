package forecast

import (
	"math"
	"time"
)

const yearDays = 365.25

// featureRow builds the regression features for one date: intercept,
// linear trend, day-of-week effects (Monday is the baseline), yearly
// Fourier pairs, and one indicator per observed holiday.
func (m *Model) featureRow(d time.Time) []float64 {
	row := make([]float64, 0, 2+6+2*m.cfg.YearlyFourierOrder+len(m.holidays))

	row = append(row, 1.0)
	row = append(row, d.Sub(m.trendBase).Hours()/24/yearDays)

	// Tuesday..Sunday dummies.
	dow := int(d.Weekday()+6) % 7 // Monday=0 .. Sunday=6
	for i := 1; i <= 6; i++ {
		if dow == i {
			row = append(row, 1.0)
		} else {
			row = append(row, 0.0)
		}
	}

	phase := 2 * math.Pi * float64(d.YearDay()) / yearDays
	for k := 1; k <= m.cfg.YearlyFourierOrder; k++ {
		row = append(row, math.Sin(float64(k)*phase), math.Cos(float64(k)*phase))
	}

	name, isHoliday := holidayName(d)
	for _, h := range m.holidays {
		if isHoliday && h == name {
			row = append(row, 1.0)
		} else {
			row = append(row, 0.0)
		}
	}
	return row
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
