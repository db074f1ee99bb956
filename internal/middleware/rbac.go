package middleware

import (
	common_models "go-telecrm/internal/common/models"
	"go-telecrm/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRole allows the request only when the caller holds one of the roles
func RequireRole(roles ...common_models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: Insufficient permissions",
		})
	}
}
