package httpx

import (
	"context"
	"net/http"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandlers answers liveness probes.
type HealthHandlers struct {
	Cache HealthChecker // optional
}

// Healthz handles GET and HEAD /healthz.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if h.Cache != nil {
		if err := h.Cache.Health(r.Context()); err != nil {
			status["status"] = "degraded"
			status["cache"] = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			status["cache"] = "ok"
		}
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, status)
}
