package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/safety-roster/internal/api/dto"
	"github.com/spec-kit/safety-roster/internal/service"
	apperrors "github.com/spec-kit/safety-roster/pkg/util"
)

// AuthHandler exposes the coordinator login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// LoginCoordinator handles POST /auth/coordinator/login.
func (h *AuthHandler) LoginCoordinator(c *fiber.Ctx) error {
	var req dto.CoordinatorLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Password == "" {
		return apperrors.NewValidationError("password required", map[string]any{"password": "required"})
	}

	token, err := h.auth.LoginCoordinator(c.UserContext(), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt},
	})
}
