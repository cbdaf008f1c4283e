package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolerp_backend/internals/constants"
	"schoolerp_backend/internals/features/activity_logs/controller"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

func ActivityLogRoutes(r fiber.Router, ctl *controller.ActivityLogController, auth fiber.Handler) {
	grp := r.Group("/activity-logs")
	grp.Get("/", auth, authMiddleware.OnlyRoles(constants.RoleErrorAdmin("activity logs"), constants.AdminOnly...), ctl.List)
}
