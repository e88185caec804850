package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

const AdminIDKey = "admin_id"

// AdminAuth gates administrator-only routes. It runs after APIAuth and
// rejects before any handler data access happens.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(UserKey).(*model.User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		}

		c.Locals(AdminIDKey, user.ID)

		return c.Next()
	}
}
