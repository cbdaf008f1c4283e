// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helperAuth "schoolerp_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // use the access_token cookie when no Bearer header is sent
}

// AuthJWT verifies an HMAC-signed bearer token and hydrates the caller's
// identity into Locals (user_id, role, school_id, user_name).
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw, err := extractBearerToken(c, o.AllowCookieFallback)
		if err != nil {
			return err
		}

		claims := jwt.MapClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		userID := helperAuth.ClaimUint(claims["id"])
		if userID == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		role := strings.ToLower(strClaim(claims, "role"))
		if role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		c.Locals(helperAuth.LocRawToken, raw)
		c.Locals(helperAuth.LocUserID, userID)
		c.Locals(helperAuth.LocRole, role)
		if sid := helperAuth.ClaimUint(claims["school_id"]); sid != 0 {
			c.Locals(helperAuth.LocSchoolID, sid)
		}
		if name := strClaim(claims, "user_name"); name != "" {
			c.Locals(helperAuth.LocUserName, name)
		}
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx, cookieFallback bool) (string, error) {
	authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authz == "" && cookieFallback {
		if v := strings.TrimSpace(c.Cookies("access_token")); v != "" {
			return v, nil
		}
	}
	if authz == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "No token provided")
	}

	fields := strings.Fields(authz)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Empty token")
	}
	return tok, nil
}

func strClaim(m jwt.MapClaims, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
