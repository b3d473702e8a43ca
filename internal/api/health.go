// Package api provides the HTTP handlers for the room allocation API
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthResponse represents the response for health check endpoints
type HealthResponse struct {
	Status string `json:"status"`
}

// Pinger is anything whose dependencies can be checked
type Pinger interface {
	Ready(ctx context.Context) error
}

// HealthHandler serves the Kubernetes probes
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler creates a health handler checking readiness with pinger
func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Live handles Kubernetes liveness probe requests
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "UP"})
}

// Ready handles Kubernetes readiness probe requests
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ready(ctx); err != nil {
		logrus.WithError(err).Warn("Readiness check failed")
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "DOWN"})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "UP"})
}
