package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Pinger is a dependency the service needs to serve traffic.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeHandler handles the root banner and Kubernetes health probe endpoints.
type ProbeHandler struct {
	deps map[string]Pinger
}

// NewProbeHandler creates a new probe handler. deps maps a dependency name
// (e.g. "database") to its pinger; it may be empty.
func NewProbeHandler(deps map[string]Pinger) *ProbeHandler {
	return &ProbeHandler{deps: deps}
}

// Root returns a plain-text banner confirming the service is running.
func (h *ProbeHandler) Root(c fiber.Ctx) error {
	return c.SendString("Airline lookup API is running")
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if every configured dependency answers a ping.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			return jsonError(c, fiber.StatusServiceUnavailable, name+" unavailable")
		}
		checks[name] = "ok"
	}

	return jsonSuccess(c, checks)
}
