package handler

import (
	"net/http"
	"time"
)

// Pinger is what the status endpoint needs from the database — nothing
// more. The sqlite.DB satisfies it.
type Pinger interface {
	Ping() error
}

// StatusHandler serves the diagnostic endpoints the mobile client and the
// deployment platform poll.
type StatusHandler struct {
	db          Pinger
	environment string
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(db Pinger, environment string) *StatusHandler {
	return &StatusHandler{db: db, environment: environment}
}

// HandleRoot is the welcome route.
//
// HTTP: GET /
func (h *StatusHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "welcome to the card trader backend",
		"status":  "OK",
	})
}

// HandleStatus reports server and database health.
//
// HTTP: GET /api/status
//
// Always 200 — a broken database is reported in the body, not the status
// code, so the endpoint stays usable for diagnosing exactly that failure.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"server":      "OK",
		"environment": h.environment,
	}

	if err := h.db.Ping(); err != nil {
		status["database"] = "error: " + err.Error()
	} else {
		status["database"] = "connected"
	}

	writeJSON(w, http.StatusOK, status)
}

// HandleBasicStatus is a liveness probe with no database dependency.
//
// HTTP: GET /api/basic-status
func (h *StatusHandler) HandleBasicStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"server":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
	})
}
