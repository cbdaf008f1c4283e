package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolerp_backend/internals/constants"
	"schoolerp_backend/internals/features/finance/transport/controller"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

func TransportRoutes(r fiber.Router, ctl *controller.TransportController, auth fiber.Handler) {
	read := authMiddleware.OnlyRoles(constants.RoleErrorStaff("transport"), constants.StaffRoles...)
	write := authMiddleware.OnlyRoles(constants.RoleErrorManager("transport"), constants.ManagerRoles...)

	grp := r.Group("/transport", auth)
	grp.Get("/", read, ctl.List)
	grp.Get("/:id", read, ctl.Get)
	grp.Post("/", write, ctl.Create)
	grp.Put("/:id", write, ctl.Update)
	grp.Delete("/:id", write, ctl.Delete)
}
