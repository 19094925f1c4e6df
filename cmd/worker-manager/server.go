package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"carprice-workers/internal/estimator/artifacts"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// newServeMux serves liveness, readiness and the Prometheus registry.
// Readiness fails while the broker is unreachable.
func newServeMux(bundle *artifacts.Artifacts, broker healthChecker) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status":              "ready",
			"time":                time.Now().Format(time.RFC3339),
			"artifactFingerprint": bundle.Fingerprint,
			"artifactsLoadedAt":   bundle.LoadedAt.Format(time.RFC3339),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := broker.HealthCheck(ctx); err != nil {
			body["status"] = "not ready"
			body["error"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		writeJSON(w, http.StatusOK, body)
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
