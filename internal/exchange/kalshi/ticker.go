package kalshi

import (
	"time"

	"github.com/your-org/kalshi-tsa-bot/pkg/calendar"
)

// EventTicker returns the weekly event ticker for the period settling on
// the boundary date, e.g. KXTSAW-25JUL20.
func EventTicker(seriesTicker string, boundary time.Time) string {
	return seriesTicker + "-" + calendar.Token(boundary)
}
