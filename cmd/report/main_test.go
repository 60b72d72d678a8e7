package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/kalshi-tsa-bot/internal/simulation"
)

func TestParseStrikes(t *testing.T) {
	strikes, err := parseStrikes("2600000, 2650000,2700000")
	require.NoError(t, err)
	assert.Equal(t, []float64{2600000, 2650000, 2700000}, strikes)

	strikes, err = parseStrikes("")
	require.NoError(t, err)
	assert.Nil(t, strikes)

	_, err = parseStrikes("2600000,abc")
	assert.Error(t, err)
}

func TestBuildReport(t *testing.T) {
	dist := simulation.Distribution{2500000, 2600000, 2700000, 2800000}
	cutoff := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)

	report, err := buildReport(cutoff, dist, []float64{2650000})
	require.NoError(t, err)

	assert.Contains(t, report, "cutoff 2025-07-20 (4 draws)")
	assert.Contains(t, report, "Mean weekly average: 2650000")
	assert.Contains(t, report, "p50: 2650000")
	assert.Contains(t, report, "P(avg > 2650000) = 50%")
}

func TestBuildReportWithoutStrikes(t *testing.T) {
	report, err := buildReport(time.Now(), simulation.Distribution{1, 2}, nil)
	require.NoError(t, err)
	assert.NotContains(t, report, "Probability ladder")
}
