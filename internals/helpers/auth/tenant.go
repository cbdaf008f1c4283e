// file: internals/helpers/auth/tenant.go
package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var ErrTenantMissing = fiber.NewError(fiber.StatusBadRequest, "School ID not found. Please log in again.")

// Tenant is the caller's resolved isolation boundary.
type Tenant struct {
	SchoolID uint
	All      bool // admin asked for the cross-school view
	Admin    bool
	Role     string
	UserID   uint
}

// ResolveTenant works out which school a request acts on.
//
// Admins may override the school with ?schoolId=<n> or ask for every school
// with ?all=true. Everyone else is pinned to the school in their token and
// any schoolId they send is ignored.
func ResolveTenant(c *fiber.Ctx) (Tenant, error) {
	t := Tenant{
		Role:   GetRole(c),
		UserID: GetUserID(c),
		Admin:  IsAdmin(c),
	}

	if !t.Admin {
		t.SchoolID = GetSchoolIDFromToken(c)
		if t.SchoolID == 0 {
			return t, ErrTenantMissing
		}
		return t, nil
	}

	if raw := strings.TrimSpace(c.Query("schoolId")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			return t, fiber.NewError(fiber.StatusBadRequest, "schoolId must be a positive integer")
		}
		t.SchoolID = uint(n)
		return t, nil
	}
	if c.QueryBool("all", false) {
		t.All = true
		return t, nil
	}
	t.SchoolID = GetSchoolIDFromToken(c)
	return t, nil
}

// Require fails unless the tenant names a school or is an admin's all-schools view.
func (t Tenant) Require() error {
	if t.SchoolID == 0 && !t.All {
		return ErrTenantMissing
	}
	return nil
}

// RequireSchool fails unless a concrete school is known.
func (t Tenant) RequireSchool() error {
	if t.SchoolID == 0 {
		return ErrTenantMissing
	}
	return nil
}

// Unscoped reports whether lookups skip the school filter. Admins that did
// not pick a school see every row.
func (t Tenant) Unscoped() bool {
	return t.Admin && t.SchoolID == 0
}

// Scope adds `column = schoolID` unless the tenant is unscoped.
func (t Tenant) Scope(db *gorm.DB, column string) *gorm.DB {
	if t.Unscoped() {
		return db
	}
	return db.Where(column+" = ?", t.SchoolID)
}
