package kalshi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventTicker(t *testing.T) {
	boundary := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "KXTSAW-25JUL20", EventTicker("KXTSAW", boundary))

	boundary = time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "KXTSAW-26JAN04", EventTicker("KXTSAW", boundary))
}
