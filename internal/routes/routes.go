package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shsharma-work/manhwa-translator/internal/handlers"
	"github.com/shsharma-work/manhwa-translator/internal/middleware"
	"github.com/shsharma-work/manhwa-translator/internal/services"
)

func Setup(app *fiber.App, h *handlers.Handler, auth *services.AuthService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)

	users := app.Group("/users", middleware.RequireAuth(auth))
	users.Get("/", h.ListUsers)
	users.Get("/me", h.Me)
	users.Put("/me", h.UpdateMe)
	users.Delete("/me", h.DeleteMe)
	users.Get("/:id", h.GetUserByID)
}
