// file: internals/features/schools/teachers/controller/teacher_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	activityModel "schoolerp_backend/internals/features/activity_logs/model"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	schoolService "schoolerp_backend/internals/features/schools/schools/service"
	"schoolerp_backend/internals/features/schools/teachers/dto"
	"schoolerp_backend/internals/features/schools/teachers/model"
	helper "schoolerp_backend/internals/helpers"
	helperAuth "schoolerp_backend/internals/helpers/auth"
)

const entityTeacher = "teacher"

var (
	errTeacherNotFound = fiber.NewError(fiber.StatusNotFound, "Teacher not found")
	errDuplicateEmail  = fiber.NewError(fiber.StatusBadRequest, "A teacher with this email already exists in this school")
)

type TeacherController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Audit    *activity.Recorder
}

func New(db *gorm.DB, v *validator.Validate, audit *activity.Recorder) *TeacherController {
	return &TeacherController{DB: db, Validate: v, Audit: audit}
}

func (ctl *TeacherController) emailTaken(db *gorm.DB, schoolID uint, email string, exceptID uint) (bool, error) {
	q := db.Model(&model.Teacher{}).Where("school_id = ? AND email = ?", schoolID, email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (ctl *TeacherController) findScoped(c *fiber.Ctx, tenant helperAuth.Tenant, id uint) (model.Teacher, error) {
	var m model.Teacher
	err := tenant.Scope(ctl.DB.WithContext(c.UserContext()), "school_id").First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, errTeacherNotFound
	}
	return m, err
}

// GET /api/teachers
func (ctl *TeacherController) List(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.Require(); err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	q := tenant.Scope(ctl.DB.WithContext(c.UserContext()).Model(&model.Teacher{}), "school_id")
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if subj := strings.TrimSpace(c.Query("subject")); subj != "" {
		q = q.Where(datatypes.JSONArrayQuery("subjects").Contains(subj))
	}
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		q = q.Where("status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}

	var rows []model.Teacher
	order := p.OrderClause(map[string]string{"name": "name", "email": "email", "created_at": "created_at"}, "name")
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Teachers retrieved successfully", dto.ToTeacherResponses(rows), helper.BuildMeta(total, p))
}

// GET /api/teachers/:id
func (ctl *TeacherController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctl.findScoped(c, tenant, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Teacher retrieved successfully", dto.ToTeacherResponse(m))
}

// POST /api/teachers
func (ctl *TeacherController) Create(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.RequireSchool(); err != nil {
		return helper.FromError(c, err)
	}

	var req dto.TeacherCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	if _, err := schoolService.RequireActive(db, tenant.SchoolID, "Teachers"); err != nil {
		return helper.FromError(c, err)
	}
	taken, err := ctl.emailTaken(db, tenant.SchoolID, req.Email, 0)
	if err != nil {
		return helper.FromError(c, err)
	}
	if taken {
		return helper.FromError(c, errDuplicateEmail)
	}

	m := req.ToModel(tenant.SchoolID)
	if err := db.Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, errDuplicateEmail)
		}
		return helper.FromError(c, err)
	}

	ctl.Audit.Record(c.UserContext(), activity.Entry(c, m.SchoolID, activityModel.ActionCreate, entityTeacher, m.ID,
		fmt.Sprintf("Created teacher %s", m.Name), map[string]any{"subjects": len(m.Subjects)}))
	return helper.JsonCreated(c, "Teacher created successfully", dto.ToTeacherResponse(m))
}

// PUT /api/teachers/:id
func (ctl *TeacherController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.TeacherUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctl.findScoped(c, tenant, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	if req.Email != nil && *req.Email != m.Email {
		taken, err := ctl.emailTaken(db, m.SchoolID, *req.Email, m.ID)
		if err != nil {
			return helper.FromError(c, err)
		}
		if taken {
			return helper.FromError(c, errDuplicateEmail)
		}
	}

	changes := req.Changes()
	if len(changes) > 0 {
		if err := db.Model(&model.Teacher{}).Where("id = ?", m.ID).Updates(changes).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.FromError(c, errDuplicateEmail)
			}
			return helper.FromError(c, err)
		}
		if err := db.First(&m, m.ID).Error; err != nil {
			return helper.FromError(c, err)
		}
		ctl.Audit.Record(c.UserContext(), activity.Entry(c, m.SchoolID, activityModel.ActionUpdate, entityTeacher, m.ID,
			fmt.Sprintf("Updated teacher %s", m.Name), map[string]any{"fields": len(changes)}))
	}
	return helper.JsonUpdated(c, "Teacher updated successfully", dto.ToTeacherResponse(m))
}

// DELETE /api/teachers/:id
func (ctl *TeacherController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctl.findScoped(c, tenant, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(&model.Teacher{}, m.ID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Teacher deleted successfully", fiber.Map{"id": m.ID})
}
