package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolerp_backend/internals/constants"
	"schoolerp_backend/internals/features/schools/students/controller"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

func StudentRoutes(r fiber.Router, ctl *controller.StudentController, auth fiber.Handler) {
	read := authMiddleware.OnlyRoles(constants.RoleErrorStaff("students"), constants.StaffRoles...)
	write := authMiddleware.OnlyRoles(constants.RoleErrorManager("students"), constants.ManagerRoles...)

	grp := r.Group("/students", auth)
	grp.Get("/", read, ctl.List)
	grp.Get("/:id", read, ctl.Get)
	grp.Post("/", write, ctl.Create)
	grp.Put("/:id", write, ctl.Update)
	grp.Delete("/:id", write, ctl.Delete)
}
