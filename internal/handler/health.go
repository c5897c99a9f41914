package handler

import (
	"context"
	"net/http"
	"time"
)

// readyzTimeout bounds the combined dependency probes so a hung
// database cannot stall the readiness endpoint.
const readyzTimeout = 5 * time.Second

// HealthChecker is the probe surface a dependency exposes.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// healthProbe pairs a dependency with the name it reports under.
type healthProbe struct {
	name    string
	checker HealthChecker
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	probes []healthProbe
}

// NewHealthHandler wires the Postgres and Redis probes. A nil checker
// is reported as "not configured" instead of failing readiness.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		probes: []healthProbe{
			{name: "postgres", checker: db},
			{name: "redis", checker: cache},
		},
	}
}

// HealthResponse is the body of both health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz answers liveness: the process is up and serving.
// Dependencies are deliberately not consulted here.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz answers readiness: 200 only when every configured dependency
// responds, 503 with per-dependency detail otherwise.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.probes))
	healthy := true

	for _, probe := range h.probes {
		if probe.checker == nil {
			checks[probe.name] = "not configured"
			continue
		}
		if err := probe.checker.Ping(ctx); err != nil {
			checks[probe.name] = "error: " + err.Error()
			healthy = false
			continue
		}
		checks[probe.name] = "ok"
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
}
