package http

import (
	"net/http"
	"time"

	"github.com/ReyMursuli/assets-api/internal/assets/store"
	"github.com/ReyMursuli/assets-api/pkg/httpx"
)

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Checks *struct {
		Database string `json:"database"`
	} `json:"checks,omitempty"`
}

// LivezHandler is the liveness probe. It answers 200 whenever the process
// is running.
func LivezHandler(startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status: "ok",
			Uptime: time.Since(startTime).String(),
		})
	}
}

// ReadyzHandler is the readiness probe. It degrades to 503 when the
// database cannot be reached.
func ReadyzHandler(startTime time.Time, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &struct {
			Database string `json:"database"`
		}{Database: "ok"}

		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status: status,
			Uptime: time.Since(startTime).String(),
			Checks: checks,
		})
	}
}
