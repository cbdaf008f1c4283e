package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolerp_backend/internals/constants"
	"schoolerp_backend/internals/features/schools/schools/controller"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

func SchoolRoutes(r fiber.Router, ctl *controller.SchoolController, auth fiber.Handler) {
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("schools"), constants.AdminOnly...)

	grp := r.Group("/schools", auth)
	grp.Get("/me", ctl.Me)

	grp.Get("/", adminOnly, ctl.List)
	grp.Post("/", adminOnly, ctl.Create)
	grp.Get("/:id", adminOnly, ctl.Get)
	grp.Put("/:id", adminOnly, ctl.Update)
}
