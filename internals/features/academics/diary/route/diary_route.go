package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolerp_backend/internals/constants"
	"schoolerp_backend/internals/features/academics/diary/controller"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

func DiaryRoutes(r fiber.Router, ctl *controller.DiaryController, auth fiber.Handler) {
	anyone := authMiddleware.OnlyRoles("", constants.AllRoles...)
	staff := authMiddleware.OnlyRoles(constants.RoleErrorStaff("diary entries"), constants.StaffRoles...)

	grp := r.Group("/diary", auth)
	grp.Get("/", anyone, ctl.List)
	grp.Get("/:id", anyone, ctl.Get)
	grp.Post("/", staff, ctl.Create)
	grp.Put("/:id", staff, ctl.Update)
	grp.Delete("/:id", staff, ctl.Delete)
}
