package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
)

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthResponse reports dependency status
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall status
	// default: healthy
	Status string `json:"status"`

	// Redis status
	// default: healthy
	Redis string `json:"redis"`

	// Database status
	// default: healthy
	Database string `json:"database"`
}

// NewHealthHandler returns an HTTP handler probing Redis and the database.
// The endpoint always answers 200; failing dependencies are reported in the body.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Health"
// @Router /health [get]
func NewHealthHandler(redis, database Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:   statusHealthy,
			Redis:    probe(r.Context(), "redis", redis),
			Database: probe(r.Context(), "database", database),
		})
	}
}

func probe(ctx context.Context, name string, p Pinger) string {
	if err := p.Ping(ctx); err != nil {
		logger.Log.Warnw("health check failed", "dependency", name, "err", err)
		return statusUnhealthy
	}
	return statusHealthy
}
