package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/kalshi-tsa-bot/internal/series"
)

func day(d int) time.Time {
	return time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC)
}

func TestInMemUpsertSkipsExistingDates(t *testing.T) {
	r := NewInMemRepository()
	ctx := context.Background()

	inserted, err := r.UpsertPoints(ctx, []series.Point{
		{Date: day(1), Value: 100},
		{Date: day(2), Value: 200},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	// Re-scraping overlapping history inserts only the new date.
	inserted, err = r.UpsertPoints(ctx, []series.Point{
		{Date: day(2), Value: 999},
		{Date: day(3), Value: 300},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	points, err := r.FetchSeries(ctx)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, day(1), points[0].Date)
	assert.Equal(t, day(3), points[2].Date)
	assert.Equal(t, 200.0, points[1].Value, "existing date must keep its original value")
}

func TestInMemSimsRoundTrip(t *testing.T) {
	r := NewInMemRepository()
	ctx := context.Background()
	cutoff := day(20)

	require.NoError(t, r.CreateSimsTable(ctx, cutoff))

	batch := [][]float64{
		{1, 2, 3, 4, 5, 6, 7},
		{7, 6, 5, 4, 3, 2, 1},
	}
	n, err := r.InsertSims(ctx, cutoff, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	stored, err := r.FetchSims(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, batch, stored)

	// A different cutoff reads an independent table.
	other, err := r.FetchSims(ctx, day(27))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInMemFetchSimsReturnsIndependentCopy(t *testing.T) {
	r := NewInMemRepository()
	ctx := context.Background()
	cutoff := day(20)

	_, err := r.InsertSims(ctx, cutoff, [][]float64{{1, 2, 3, 4, 5, 6, 7}})
	require.NoError(t, err)

	first, err := r.FetchSims(ctx, cutoff)
	require.NoError(t, err)
	first[0][0] = -1

	second, err := r.FetchSims(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1.0, second[0][0], "mutating a fetched row must not touch the stored batch")
}

func TestInMemInsertSimsRejectsMisshapenRows(t *testing.T) {
	r := NewInMemRepository()
	_, err := r.InsertSims(context.Background(), day(20), [][]float64{{1, 2}})
	assert.Error(t, err)
}
