package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/safety-roster/internal/config"
)

// NewApp builds the fiber application. Paths are unescaped so fullwidth staff
// ids reach the normalizer intact.
func NewApp(cfg config.AppConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               cfg.Name,
		UnescapePath:          true,
		DisableStartupMessage: true,
	})
}
