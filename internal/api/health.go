package api

import (
	"net/http"
	"time"

	"github.com/yumelog/yumelog/internal/api/respond"
	"github.com/yumelog/yumelog/internal/store"
)

// HealthHandler reports liveness and storage reachability.
type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

// CheckHealth always answers 200; the body carries the storage status so
// probes can distinguish a degraded process from a dead one.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if err := h.store.HealthPing(r.Context()); err != nil {
		status = "unhealthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
