package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolerp_backend/internals/constants"
	"schoolerp_backend/internals/features/schools/teachers/controller"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

func TeacherRoutes(r fiber.Router, ctl *controller.TeacherController, auth fiber.Handler) {
	read := authMiddleware.OnlyRoles(constants.RoleErrorStaff("teachers"), constants.StaffRoles...)
	write := authMiddleware.OnlyRoles(constants.RoleErrorManager("teachers"), constants.ManagerRoles...)

	grp := r.Group("/teachers", auth)
	grp.Get("/", read, ctl.List)
	grp.Get("/:id", read, ctl.Get)
	grp.Post("/", write, ctl.Create)
	grp.Put("/:id", write, ctl.Update)
	grp.Delete("/:id", write, ctl.Delete)
}
