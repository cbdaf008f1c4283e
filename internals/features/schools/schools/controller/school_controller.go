// file: internals/features/schools/schools/controller/school_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activityModel "schoolerp_backend/internals/features/activity_logs/model"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	"schoolerp_backend/internals/features/schools/schools/dto"
	"schoolerp_backend/internals/features/schools/schools/model"
	helper "schoolerp_backend/internals/helpers"
	helperAuth "schoolerp_backend/internals/helpers/auth"
)

var (
	errSchoolNotFound = fiber.NewError(fiber.StatusNotFound, "School not found")
	errDuplicateCode  = fiber.NewError(fiber.StatusBadRequest, "School code already exists")
)

type SchoolController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Audit    *activity.Recorder
}

func New(db *gorm.DB, v *validator.Validate, audit *activity.Recorder) *SchoolController {
	return &SchoolController{DB: db, Validate: v, Audit: audit}
}

func (ctl *SchoolController) codeTaken(db *gorm.DB, code string, exceptID uint) (bool, error) {
	q := db.Model(&model.School{}).Where("code = ?", code)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// GET /api/schools (admin)
func (ctl *SchoolController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.AdminOpts)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.School{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		q = q.Where("status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}

	var rows []model.School
	order := p.OrderClause(map[string]string{"name": "name", "code": "code", "created_at": "created_at"}, "name")
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Schools retrieved successfully", dto.ToSchoolResponses(rows), helper.BuildMeta(total, p))
}

// GET /api/schools/:id (admin)
func (ctl *SchoolController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	return ctl.respondOne(c, id)
}

// GET /api/schools/me
func (ctl *SchoolController) Me(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.RequireSchool(); err != nil {
		return helper.FromError(c, err)
	}
	return ctl.respondOne(c, tenant.SchoolID)
}

func (ctl *SchoolController) respondOne(c *fiber.Ctx, id uint) error {
	var m model.School
	if err := ctl.DB.WithContext(c.UserContext()).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.FromError(c, errSchoolNotFound)
		}
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "School retrieved successfully", dto.ToSchoolResponse(m))
}

// POST /api/schools (admin)
func (ctl *SchoolController) Create(c *fiber.Ctx) error {
	var req dto.SchoolCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	taken, err := ctl.codeTaken(db, req.Code, 0)
	if err != nil {
		return helper.FromError(c, err)
	}
	if taken {
		return helper.FromError(c, errDuplicateCode)
	}

	m := req.ToModel()
	if err := db.Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, errDuplicateCode)
		}
		return helper.FromError(c, err)
	}

	ctl.Audit.Record(c.UserContext(), activity.Entry(c, m.ID, activityModel.ActionCreate, "school", m.ID,
		fmt.Sprintf("Created school %s", m.Code), nil))
	return helper.JsonCreated(c, "School created successfully", dto.ToSchoolResponse(m))
}

// PUT /api/schools/:id (admin)
func (ctl *SchoolController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SchoolUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	var m model.School
	if err := db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.FromError(c, errSchoolNotFound)
		}
		return helper.FromError(c, err)
	}

	if req.Code != nil && *req.Code != m.Code {
		taken, err := ctl.codeTaken(db, *req.Code, m.ID)
		if err != nil {
			return helper.FromError(c, err)
		}
		if taken {
			return helper.FromError(c, errDuplicateCode)
		}
	}

	changes := req.Changes()
	if len(changes) > 0 {
		if err := db.Model(&m).Updates(changes).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.FromError(c, errDuplicateCode)
			}
			return helper.FromError(c, err)
		}
		if err := db.First(&m, id).Error; err != nil {
			return helper.FromError(c, err)
		}
		ctl.Audit.Record(c.UserContext(), activity.Entry(c, m.ID, activityModel.ActionUpdate, "school", m.ID,
			fmt.Sprintf("Updated school %s", m.Code), map[string]any{"fields": len(changes)}))
	}
	return helper.JsonUpdated(c, "School updated successfully", dto.ToSchoolResponse(m))
}
