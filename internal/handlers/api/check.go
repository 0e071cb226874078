package api

import (
	"github.com/gofiber/fiber/v3"

	"airlinelookup/internal/config"
	"airlinelookup/internal/models"
)

// CheckHandler reports whether the AviationStack key is configured.
type CheckHandler struct {
	cfg *config.Config
}

// NewCheckHandler creates a new check handler.
func NewCheckHandler(cfg *config.Config) *CheckHandler {
	return &CheckHandler{cfg: cfg}
}

// Check returns keyLoaded and at most the first four characters of the key.
func (h *CheckHandler) Check(c fiber.Ctx) error {
	resp := models.CheckResponse{KeyLoaded: h.cfg.AviationStackKey != ""}
	if resp.KeyLoaded {
		prefix := h.cfg.KeyPrefix()
		resp.KeyPrefix = &prefix
	}
	return c.JSON(resp)
}
