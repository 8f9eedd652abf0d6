package handlers

import (
	"net/http"

	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest"
)

// Healthz probes every configured tenant. Any unhealthy tenant turns the whole
// answer into a 503.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	ids := h.tenants.IDs()

	resp := healthResponse{Status: "ok", Tenants: make(map[string]tenantHealth, len(ids))}
	status := http.StatusOK
	for _, id := range ids {
		hs := h.bridge.Healthcheck(r.Context(), id)
		resp.Tenants[id] = tenantHealth{Healthy: hs.Healthy, Message: hs.Message}
		if !hs.Healthy {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	rest.WriteJSON(w, status, resp, h.logger)
}
