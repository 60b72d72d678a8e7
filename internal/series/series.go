// Package series defines the daily time series types shared by the
// forecasting, simulation and storage layers.
package series

import (
	"time"
)

// Point is a single daily reading: one value per calendar date.
type Point struct {
	Date  time.Time
	Value float64
}

// Window returns the points with from <= date <= to, preserving order.
// The input is assumed ascending by date.
func Window(points []Point, from, to time.Time) []Point {
	var out []Point
	for _, p := range points {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ValuesBetween returns the values of points with after < date <= through,
// in order. Used to collect the realized daily readings of the current
// period: the previous boundary day itself settles the prior period.
func ValuesBetween(points []Point, after, through time.Time) []float64 {
	var out []float64
	for _, p := range points {
		if !p.Date.After(after) || p.Date.After(through) {
			continue
		}
		out = append(out, p.Value)
	}
	return out
}

// LastDate returns the date of the final point, if any.
func LastDate(points []Point) (time.Time, bool) {
	if len(points) == 0 {
		return time.Time{}, false
	}
	return points[len(points)-1].Date, true
}

// Mean returns the arithmetic mean of vals, or 0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
