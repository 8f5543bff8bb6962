package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 3 * time.Second

// HealthChecker is implemented by every dependency reported on /health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthCheckFunc adapts a ping function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Health(ctx context.Context) error { return f(ctx) }

// Dependency is a named HealthChecker.
type Dependency struct {
	Name    string
	Checker HealthChecker
}

// HealthResponse represents the JSON response from the health check endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
	Timestamp    string            `json:"timestamp"`
}

// NewHealthHandler checks every dependency and answers 200 when all are
// reachable, 503 otherwise.
func NewHealthHandler(deps ...Dependency) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		response := HealthResponse{
			Status:       "healthy",
			Dependencies: make(map[string]string, len(deps)),
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
		}
		code := http.StatusOK
		for _, dep := range deps {
			if err := dep.Checker.Health(ctx); err != nil {
				response.Dependencies[dep.Name] = "disconnected"
				response.Status = "unhealthy"
				code = http.StatusServiceUnavailable
				continue
			}
			response.Dependencies[dep.Name] = "connected"
		}
		c.JSON(code, response)
	}
}
