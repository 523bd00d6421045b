package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/safety-roster/internal/api/dto"
	"github.com/spec-kit/safety-roster/internal/observability"
	"github.com/spec-kit/safety-roster/internal/service"
)

// RosterHandler serves coordinator-only views.
type RosterHandler struct {
	registry *service.RegistryService
	metrics  *observability.Metrics
}

// NewRosterHandler constructs handler.
func NewRosterHandler(registry *service.RegistryService, metrics *observability.Metrics) *RosterHandler {
	return &RosterHandler{registry: registry, metrics: metrics}
}

// Roster GET /roster.
func (h *RosterHandler) Roster(c *fiber.Ctx) error {
	view := h.registry.Roster(c.UserContext())
	return c.JSON(fiber.Map{"data": dto.NewRosterResponse(view)})
}

// Metrics GET /metrics.
func (h *RosterHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
