package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"airlinelookup/internal/handlers/api"
)

// RegisterRoutes registers all application routes. deps are the
// dependencies checked by /readyz.
func (s *Server) RegisterRoutes(svc api.Lookuper, deps map[string]api.Pinger) {
	probeHandler := api.NewProbeHandler(deps)
	airlineHandler := api.NewAirlineHandler(svc)
	checkHandler := api.NewCheckHandler(s.Cfg)

	s.App.Get("/", probeHandler.Root)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.App.Get("/airline", airlineHandler.Get)
	s.App.Get("/check", checkHandler.Check)
}
