package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/your-org/kalshi-tsa-bot/internal/series"
)

// SeriesReader is the slice of the datastore the status endpoint needs.
type SeriesReader interface {
	FetchSeries(ctx context.Context) ([]series.Point, error)
}

// StatusHandler reports the freshness of the stored series.
type StatusHandler struct {
	repo SeriesReader
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(repo SeriesReader) *StatusHandler {
	return &StatusHandler{repo: repo}
}

// RegisterRoutes registers the status routes on a chi router.
func (h *StatusHandler) RegisterRoutes(r chi.Router) {
	r.Get("/status/series", h.GetSeriesStatus)
}

type seriesStatus struct {
	Observations int    `json:"observations"`
	FirstDate    string `json:"first_date,omitempty"`
	LastDate     string `json:"last_date,omitempty"`
}

// GetSeriesStatus returns how much history is stored and how fresh it is.
func (h *StatusHandler) GetSeriesStatus(w http.ResponseWriter, r *http.Request) {
	points, err := h.repo.FetchSeries(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch series", http.StatusInternalServerError)
		return
	}

	status := seriesStatus{Observations: len(points)}
	if len(points) > 0 {
		status.FirstDate = points[0].Date.Format("2006-01-02")
		status.LastDate = points[len(points)-1].Date.Format("2006-01-02")
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, "Failed to encode status to JSON", http.StatusInternalServerError)
	}
}
