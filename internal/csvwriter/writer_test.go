package csvwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/kalshi-tsa-bot/internal/series"
)

func TestWriteSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	w, err := NewWriter(path, zap.NewNop())
	require.NoError(t, err)

	err = w.WriteSeries([]series.Point{
		{Date: time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC), Value: 2887930},
		{Date: time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC), Value: 2641107.5},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "date,passengers\n2025-07-18,2887930\n2025-07-19,2641107.5\n", string(content))
}
