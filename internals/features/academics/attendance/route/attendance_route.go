package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolerp_backend/internals/constants"
	"schoolerp_backend/internals/features/academics/attendance/controller"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

func AttendanceRoutes(r fiber.Router, ctl *controller.AttendanceController, auth fiber.Handler) {
	staff := authMiddleware.OnlyRoles(constants.RoleErrorStaff("attendance"), constants.StaffRoles...)

	grp := r.Group("/attendance", auth)
	grp.Post("/", staff, ctl.Mark)
	grp.Get("/", staff, ctl.List)
	grp.Get("/students/:studentId/summary",
		authMiddleware.OnlyRoles("", constants.AllRoles...),
		ctl.StudentSummary,
	)
}
