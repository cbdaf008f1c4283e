// file: internals/features/schools/students/controller/student_controller.go
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
	transportModel "schoolerp_backend/internals/features/finance/transport/model"
	schoolService "schoolerp_backend/internals/features/schools/schools/service"
	"schoolerp_backend/internals/features/schools/students/dto"
	"schoolerp_backend/internals/features/schools/students/model"
	helper "schoolerp_backend/internals/helpers"
	helperAuth "schoolerp_backend/internals/helpers/auth"
)

const entityStudent = "student"

var (
	errStudentNotFound  = fiber.NewError(fiber.StatusNotFound, "Student not found")
	errDuplicateAdmNo   = fiber.NewError(fiber.StatusBadRequest, "Admission number already exists in this school")
	errForeignTransport = fiber.NewError(fiber.StatusBadRequest, "Transport route not found in this school")
)

type StudentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Audit    *activity.Recorder
}

func New(db *gorm.DB, v *validator.Validate, audit *activity.Recorder) *StudentController {
	return &StudentController{DB: db, Validate: v, Audit: audit}
}

func (ctl *StudentController) admissionTaken(db *gorm.DB, schoolID uint, no string, exceptID uint) (bool, error) {
	q := db.Model(&model.Student{}).Where("school_id = ? AND admission_no = ?", schoolID, no)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// checkRoute rejects a transport route owned by another school.
func (ctl *StudentController) checkRoute(db *gorm.DB, schoolID uint, routeID *uint) error {
	if routeID == nil || *routeID == 0 {
		return nil
	}
	var n int64
	if err := db.Model(&transportModel.TransportRoute{}).
		Where("id = ? AND school_id = ?", *routeID, schoolID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errForeignTransport
	}
	return nil
}

func (ctl *StudentController) findScoped(c *fiber.Ctx, tenant helperAuth.Tenant, id uint) (model.Student, error) {
	var m model.Student
	err := tenant.Scope(ctl.DB.WithContext(c.UserContext()), "school_id").First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, errStudentNotFound
	}
	return m, err
}

// GET /api/students
func (ctl *StudentController) List(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.Require(); err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	q := tenant.Scope(ctl.DB.WithContext(c.UserContext()).Model(&model.Student{}), "school_id")
	if v := strings.TrimSpace(c.Query("className")); v != "" {
		q = q.Where("class_name = ?", v)
	}
	if v := strings.TrimSpace(c.Query("section")); v != "" {
		q = q.Where("section = ?", v)
	}
	if v := strings.TrimSpace(c.Query("q")); v != "" {
		like := "%" + strings.ToLower(v) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(admission_no) LIKE ?", like, like)
	}
	if v := strings.ToLower(strings.TrimSpace(c.Query("status"))); v != "" {
		q = q.Where("status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.Student
	order := p.OrderClause(map[string]string{
		"name":         "name",
		"admission_no": "admission_no",
		"class_name":   "class_name",
		"created_at":   "created_at",
	}, "name")
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Students retrieved successfully", dto.ToStudentResponses(rows), helper.BuildMeta(total, p))
}

// GET /api/students/:id
func (ctl *StudentController) Get(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "Student retrieved successfully", dto.ToStudentResponse(m))
}

// POST /api/students
func (ctl *StudentController) Create(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.RequireSchool(); err != nil {
		return helper.FromError(c, err)
	}

	var req dto.StudentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	if _, err := schoolService.RequireActive(db, tenant.SchoolID, "Students"); err != nil {
		return helper.FromError(c, err)
	}
	taken, err := ctl.admissionTaken(db, tenant.SchoolID, req.AdmissionNo, 0)
	if err != nil {
		return helper.FromError(c, err)
	}
	if taken {
		return helper.FromError(c, errDuplicateAdmNo)
	}
	if err := ctl.checkRoute(db, tenant.SchoolID, req.TransportRouteID); err != nil {
		return helper.FromError(c, err)
	}

	m := req.ToModel(tenant.SchoolID)
	if err := db.Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, errDuplicateAdmNo)
		}
		return helper.FromError(c, err)
	}

	ctl.Audit.Record(c.UserContext(), activity.Entry(c, m.SchoolID, activityModel.ActionCreate, entityStudent, m.ID,
		fmt.Sprintf("Admitted student %s (%s)", m.Name, m.AdmissionNo), nil))
	return helper.JsonCreated(c, "Student created successfully", dto.ToStudentResponse(m))
}

// PUT /api/students/:id
func (ctl *StudentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.StudentUpdateRequest
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
	if req.AdmissionNo != nil && *req.AdmissionNo != m.AdmissionNo {
		taken, err := ctl.admissionTaken(db, m.SchoolID, *req.AdmissionNo, m.ID)
		if err != nil {
			return helper.FromError(c, err)
		}
		if taken {
			return helper.FromError(c, errDuplicateAdmNo)
		}
	}
	if err := ctl.checkRoute(db, m.SchoolID, req.TransportRouteID); err != nil {
		return helper.FromError(c, err)
	}

	changes := req.Changes()
	if len(changes) > 0 {
		if err := db.Model(&model.Student{}).Where("id = ?", m.ID).Updates(changes).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.FromError(c, errDuplicateAdmNo)
			}
			return helper.FromError(c, err)
		}
		m = model.Student{}
		if err := db.First(&m, id).Error; err != nil {
			return helper.FromError(c, err)
		}
		ctl.Audit.Record(c.UserContext(), activity.Entry(c, m.SchoolID, activityModel.ActionUpdate, entityStudent, m.ID,
			fmt.Sprintf("Updated student %s", m.AdmissionNo), map[string]any{"fields": len(changes)}))
	}
	return helper.JsonUpdated(c, "Student updated successfully", dto.ToStudentResponse(m))
}

// DELETE /api/students/:id
func (ctl *StudentController) Delete(c *fiber.Ctx) error {
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
	if err := ctl.DB.WithContext(c.UserContext()).Delete(&model.Student{}, m.ID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Student deleted successfully", fiber.Map{"id": m.ID})
}
