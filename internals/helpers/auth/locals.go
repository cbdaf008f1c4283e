// file: internals/helpers/auth/locals.go
package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolerp_backend/internals/constants"
)

// Locals keys hydrated by middlewares/auth.AuthJWT
const (
	LocUserID   = "user_id"   // uint
	LocRole     = "role"      // string
	LocSchoolID = "school_id" // uint, absent for platform admins
	LocUserName = "user_name" // string
	LocRawToken = "raw_token" // string
)

func GetRole(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocRole).(string); ok {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return ""
}

func GetUserID(c *fiber.Ctx) uint {
	return toUint(c.Locals(LocUserID))
}

func GetSchoolIDFromToken(c *fiber.Ctx) uint {
	return toUint(c.Locals(LocSchoolID))
}

func IsAdmin(c *fiber.Ctx) bool { return GetRole(c) == constants.RoleAdmin }

func HasAnyRole(c *fiber.Ctx, roles ...string) bool {
	role := GetRole(c)
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

// toUint accepts the shapes a claim can take after JWT decoding.
func toUint(v any) uint {
	switch t := v.(type) {
	case uint:
		return t
	case int:
		if t > 0 {
			return uint(t)
		}
	case int64:
		if t > 0 {
			return uint(t)
		}
	case float64:
		if t > 0 {
			return uint(t)
		}
	case string:
		if n, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64); err == nil {
			return uint(n)
		}
	}
	return 0
}

// ClaimUint is exported for the middleware that hydrates Locals.
func ClaimUint(v any) uint { return toUint(v) }
