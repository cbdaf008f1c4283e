package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"schoolerp_backend/internals/configs"
	"schoolerp_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global middleware chain in order.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(GlobalRateLimiter(cfg.RateLimitMax))
	app.Use(Timeout(cfg.RequestTimeout))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
}
