// internals/features/finance/fee_structures/route/fee_structure_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolerp_backend/internals/constants"
	"schoolerp_backend/internals/features/finance/fee_structures/controller"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

// FeeStructureRoutes mounts /fee-structures on r. Every route except
// /health carries auth; literal paths are registered before /:id.
func FeeStructureRoutes(r fiber.Router, ctl *controller.FeeStructureController, auth fiber.Handler) {
	read := authMiddleware.OnlyRoles(constants.RoleErrorStaff("fee structures"), constants.StaffRoles...)
	write := authMiddleware.OnlyRoles(constants.RoleErrorManager("fee structures"), constants.ManagerRoles...)

	grp := r.Group("/fee-structures")
	{
		grp.Get("/health", ctl.Health)

		grp.Get("/", auth, read, ctl.List)
		grp.Get("/categories/all", auth, read, ctl.ListCategoryNames)
		grp.Get("/:id", auth, read, ctl.Get)

		grp.Post("/", auth, write, ctl.Create)
		grp.Put("/:id", auth, write, ctl.Update)
		grp.Delete("/:id", auth, write, ctl.Delete)
	}
}
