package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var errNotConnected = errors.New("not connected")

// Connector is a long-lived connection that reports its own state
type Connector interface {
	Connected() bool
}

// ConnectionCheck turns a Connector into a HealthCheck
func ConnectionCheck(name string, critical bool, c Connector) HealthCheck {
	return HealthCheck{
		Name:     name,
		Critical: critical,
		Check: func(context.Context) error {
			if !c.Connected() {
				return errNotConnected
			}
			return nil
		},
	}
}

// Health reports every configured dependency check
func (h *API) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{}, len(h.checks))

	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks[c.Name] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			continue
		}
		checks[c.Name] = map[string]interface{}{"status": "healthy"}
	}
	checks["sse_subscribers"] = h.pubsub.SubscriberCount()
	checks["workspaces"] = h.workspaces.Len()

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// Liveness answers Kubernetes liveness probes without touching dependencies
func (h *API) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// Readiness answers Kubernetes readiness probes using the critical checks
func (h *API) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for _, c := range h.checks {
		if !c.Critical {
			continue
		}
		if err := c.Check(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":    "not_ready",
				"reason":    c.Name + "_unavailable",
				"timestamp": time.Now().Unix(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
