package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/shsharma-work/manhwa-translator/internal/apperr"
	"github.com/shsharma-work/manhwa-translator/internal/middleware"
	"github.com/shsharma-work/manhwa-translator/internal/models"
	"github.com/shsharma-work/manhwa-translator/internal/services"
)

const defaultListLimit = 100

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing credentials"})
	}
	return c.JSON(user.Profile())
}

// GetUserByID returns a user's profile. Users can only read their own
// profile; anything else is denied.
func (h *Handler) GetUserByID(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	if current == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing credentials"})
	}

	id := c.Params("id")
	if current.UserID != id {
		return apperr.Forbidden("access denied")
	}

	user, err := h.users.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}
	return c.JSON(user.Profile())
}

type updateProfileReq struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
}

// UpdateMe applies a partial update to the authenticated user's profile.
func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	if current == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing credentials"})
	}

	var req updateProfileReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	user, err := h.users.Update(c.Context(), current.UserID, services.ProfileUpdate{
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		return err
	}
	return c.JSON(user.Profile())
}

// DeleteMe removes the authenticated user's account.
func (h *Handler) DeleteMe(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	if current == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing credentials"})
	}
	if err := h.users.Delete(c.Context(), current.UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers returns up to ?limit= user profiles.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	limit := int64(defaultListLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	users, err := h.users.List(c.Context(), limit)
	if err != nil {
		return err
	}
	profiles := make([]models.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return c.JSON(profiles)
}
