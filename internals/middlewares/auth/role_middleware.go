package auth

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "schoolerp_backend/internals/helpers/auth"
)

// OnlyRoles lets the request through when the caller holds one of roles.
func OnlyRoles(message string, roles ...string) fiber.Handler {
	if message == "" {
		message = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		if helperAuth.GetRole(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		if helperAuth.HasAnyRole(c, roles...) {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, message)
	}
}
