package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/safety-roster/internal/api/dto"
	"github.com/spec-kit/safety-roster/internal/identifier"
	"github.com/spec-kit/safety-roster/internal/service"
	apperrors "github.com/spec-kit/safety-roster/pkg/util"
)

// StaffHandler serves the staff self-report form.
type StaffHandler struct {
	registry *service.RegistryService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(registry *service.RegistryService) *StaffHandler {
	return &StaffHandler{registry: registry}
}

// Options GET /options.
func (h *StaffHandler) Options(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewFormOptionsResponse(h.registry.Options())})
}

// GetStaff GET /staff/:id.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	draft, err := h.registry.FetchForEdit(c.UserContext(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EditDraftResponse{
		Found:  draft.Found,
		Record: dto.NewStaffRecordResponse(draft.Record),
	}})
}

// SaveStaff PUT /staff/:id.
func (h *StaffHandler) SaveStaff(c *fiber.Ctx) error {
	id, err := identifier.Normalize(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return err
	}
	var req dto.StaffSaveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ack, err := h.registry.Save(c.UserContext(), id, req.Fields())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffRecordResponse(ack.Record)})
}
