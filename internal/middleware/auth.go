package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shsharma-work/manhwa-translator/internal/models"
	"github.com/shsharma-work/manhwa-translator/internal/services"
)

// userKey is the fiber.Ctx locals key the authenticated user is stored under.
const userKey = "current_user"

// RequireAuth extracts the bearer token from the Authorization header,
// resolves it to a user and stores the user in the request locals. Requests
// without a valid token are rejected with 401.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing credentials"})
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing credentials"})
		}

		user, err := auth.Verify(c.Context(), parts[1])
		if err != nil {
			return err
		}
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(userKey).(*models.User)
	return u
}
