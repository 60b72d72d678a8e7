package handler

import (
	"net/http"
)

// HealthCheckHandler reports process liveness only. Database and venue
// connectivity are covered by the series status endpoint.
func HealthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
