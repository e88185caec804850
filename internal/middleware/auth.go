package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tbn01-acc/lifefocus-sub002/internal/repository"
)

const (
	UserKey   = "user"
	UserIDKey = "user_id"
)

// APIAuth resolves the bearer token to a user. Identity provisioning lives
// elsewhere; this only maps token to user id.
func APIAuth(repo *repository.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Authorization")
		if strings.HasPrefix(token, "Bearer ") {
			token = strings.TrimPrefix(token, "Bearer ")
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization token",
			})
		}

		user, err := repo.GetUserByAPIToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization token",
			})
		}

		c.Locals(UserKey, user)
		c.Locals(UserIDKey, user.ID)

		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) int64 {
	if id, ok := c.Locals(UserIDKey).(int64); ok {
		return id
	}
	return 0
}
