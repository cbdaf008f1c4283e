package middlewares_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolerp_backend/internals/configs"
	helper "schoolerp_backend/internals/helpers"
	"schoolerp_backend/internals/middlewares"
)

func newApp(rateLimit int, trusted ...string) *fiber.App {
	app := fiber.New(middlewares.TrustProxies(fiber.Config{ErrorHandler: helper.ErrorHandler}, trusted))
	middlewares.SetupMiddlewares(app, &configs.Config{
		CORSOrigins:    []string{"http://localhost:5173"},
		RateLimitMax:   rateLimit,
		RequestTimeout: time.Second,
	})
	app.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString(middlewares.GetRequestID(c))
	})
	app.Get("/deadline", func(c *fiber.Ctx) error {
		_, ok := c.UserContext().Deadline()
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })
	return app
}

func TestRequestIDIsGeneratedOrEchoed(t *testing.T) {
	app := newApp(100)

	resp, err := app.Test(httptest.NewRequest("GET", "/id", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	req := httptest.NewRequest("GET", "/id", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(fiber.HeaderXRequestID))
}

func TestTimeoutSetsDeadline(t *testing.T) {
	resp, err := newApp(100).Test(httptest.NewRequest("GET", "/deadline", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRecoveryReturns500(t *testing.T) {
	resp, err := newApp(100).Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestRateLimiter(t *testing.T) {
	app := newApp(2)
	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/id", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/id", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimiterIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	app := newApp(2, "10.0.0.0/8")
	for i, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := httptest.NewRequest("GET", "/id", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, ip)
		resp, err := app.Test(req)
		require.NoError(t, err)
		if i < 2 {
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			continue
		}
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	}
}

func TestTrustProxies(t *testing.T) {
	fc := middlewares.TrustProxies(fiber.Config{}, nil)
	assert.True(t, fc.EnableTrustedProxyCheck)
	assert.Empty(t, fc.ProxyHeader)

	fc = middlewares.TrustProxies(fiber.Config{}, []string{"10.0.0.0/8"})
	assert.Equal(t, fiber.HeaderXForwardedFor, fc.ProxyHeader)
	assert.Equal(t, []string{"10.0.0.0/8"}, fc.TrustedProxies)
}
