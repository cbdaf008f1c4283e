package service

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolerp_backend/internals/features/schools/schools/model"
)

var ErrSchoolNotFound = fiber.NewError(fiber.StatusNotFound, "School not found")

// RequireActive loads the school that new rows will belong to. It fails with
// 404 when the school is missing and 403 when it is inactive; what names the
// rows being created, e.g. "Fee structures".
func RequireActive(db *gorm.DB, schoolID uint, what string) (model.School, error) {
	var s model.School
	if err := db.First(&s, schoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s, ErrSchoolNotFound
		}
		return s, err
	}
	if s.IsInactive() {
		return s, fiber.NewError(fiber.StatusForbidden, fmt.Sprintf("School is inactive. %s cannot be created.", what))
	}
	return s, nil
}
