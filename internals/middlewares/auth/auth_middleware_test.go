package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolerp_backend/internals/constants"
	helperAuth "schoolerp_backend/internals/helpers/auth"
)

const secret = "unit-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me",
		AuthJWT(AuthJWTOpts{Secret: secret, AllowCookieFallback: true}),
		OnlyRoles("", constants.StaffRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user":   helperAuth.GetUserID(c),
				"role":   helperAuth.GetRole(c),
				"school": helperAuth.GetSchoolIDFromToken(c),
			})
		})
	return app
}

func status(t *testing.T, app *fiber.App, header, cookie string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.Header.Set("Cookie", "access_token="+cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthJWT(t *testing.T) {
	app := newApp()
	exp := time.Now().Add(time.Hour).Unix()
	good := sign(t, secret, jwt.MapClaims{"id": 3, "role": "School", "school_id": 8, "exp": exp})

	cases := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"bearer", "Bearer " + good, "", fiber.StatusOK},
		{"lowercase scheme", "bearer " + good, "", fiber.StatusOK},
		{"cookie fallback", "", good, fiber.StatusOK},
		{"missing", "", "", fiber.StatusUnauthorized},
		{"bad format", "Token " + good, "", fiber.StatusUnauthorized},
		{"wrong key", "Bearer " + sign(t, "other", jwt.MapClaims{"id": 3, "role": "school", "exp": exp}), "", fiber.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, secret, jwt.MapClaims{"id": 3, "role": "school", "exp": time.Now().Add(-time.Minute).Unix()}), "", fiber.StatusUnauthorized},
		{"no id", "Bearer " + sign(t, secret, jwt.MapClaims{"role": "school", "exp": exp}), "", fiber.StatusUnauthorized},
		{"no role", "Bearer " + sign(t, secret, jwt.MapClaims{"id": 3, "exp": exp}), "", fiber.StatusUnauthorized},
		{"forbidden role", "Bearer " + sign(t, secret, jwt.MapClaims{"id": 3, "role": "parent", "exp": exp}), "", fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, status(t, app, tc.header, tc.cookie))
		})
	}
}

func TestAuthJWTRequiresSecret(t *testing.T) {
	assert.Panics(t, func() { AuthJWT(AuthJWTOpts{Secret: "  "}) })
}
