package handlers

import (
	"context"
	"net/http"
	"time"
)

const healthProbeTimeout = 3 * time.Second

// Pinger probes store connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse reports liveness and store connectivity
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DBStatus  string    `json:"db_status"`
}

// HealthHandler serves liveness endpoints
type HealthHandler struct {
	store Pinger
	now   func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store, now: time.Now}
}

// Root identifies the service
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"message": "Selic data intake is running. Endpoints are under /v1/",
	})
}

// Health always answers 200; a store failure is reported in db_status
// GET /v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	dbStatus := "connected"
	if err := h.store.Ping(ctx); err != nil {
		dbStatus = "error: " + err.Error()
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "active",
		Timestamp: h.now(),
		DBStatus:  dbStatus,
	})
}
