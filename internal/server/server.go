package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/shsharma-work/manhwa-translator/internal/apperr"
	"github.com/shsharma-work/manhwa-translator/internal/config"
	"github.com/shsharma-work/manhwa-translator/internal/handlers"
	"github.com/shsharma-work/manhwa-translator/internal/middleware"
	"github.com/shsharma-work/manhwa-translator/internal/routes"
	"github.com/shsharma-work/manhwa-translator/internal/services"
)

// New builds the Fiber application with middlewares, routes and the error
// handler that maps error kinds to HTTP status codes.
func New(cfg *config.Config, h *handlers.Handler, auth *services.AuthService, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(cors.New())
	app.Use(middleware.RequestLogger(logger))

	routes.Setup(app, h, auth)

	return app
}

// errorHandler is the single place transport status codes are derived from
// the error taxonomy. Storage and unknown failures answer with a generic
// message; the cause stays in the server log.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			switch appErr.Kind {
			case apperr.KindValidation:
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": appErr.Message})
			case apperr.KindConflict:
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": appErr.Message})
			case apperr.KindAuthentication, apperr.KindUnauthorized:
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": appErr.Message})
			case apperr.KindForbidden:
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": appErr.Message})
			case apperr.KindNotFound:
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": appErr.Message})
			case apperr.KindStorage:
				logger.Error("storage failure", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
			}
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		logger.Error("unhandled error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
