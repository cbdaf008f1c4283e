// file: internals/features/academics/attendance/controller/attendance_controller.go
package controller

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolerp_backend/internals/features/academics/attendance/dto"
	"schoolerp_backend/internals/features/academics/attendance/model"
	activityModel "schoolerp_backend/internals/features/activity_logs/model"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	studentModel "schoolerp_backend/internals/features/schools/students/model"
	helper "schoolerp_backend/internals/helpers"
	helperAuth "schoolerp_backend/internals/helpers/auth"
)

var errStudentNotFound = fiber.NewError(fiber.StatusNotFound, "Student not found")

type AttendanceController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Audit    *activity.Recorder
	Log      *zap.Logger
}

func New(db *gorm.DB, v *validator.Validate, audit *activity.Recorder, log *zap.Logger) *AttendanceController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AttendanceController{DB: db, Validate: v, Audit: audit, Log: log.Named("attendance")}
}

func withStudent(db *gorm.DB) *gorm.DB {
	return db.Preload("Student", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "admission_no")
	})
}

// unknownStudents returns the requested ids that are not students of schoolID.
func unknownStudents(db *gorm.DB, schoolID uint, ids []uint) ([]uint, error) {
	var found []uint
	if err := db.Model(&studentModel.Student{}).
		Where("school_id = ? AND id IN ?", schoolID, ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	known := make(map[uint]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing, nil
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}

// POST /api/attendance
// Upserts one mark per student for the day in a single transaction.
func (ctl *AttendanceController) Mark(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.RequireSchool(); err != nil {
		return helper.FromError(c, err)
	}

	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	missing, err := unknownStudents(db, tenant.SchoolID, req.StudentIDs())
	if err != nil {
		return helper.FromError(c, err)
	}
	if len(missing) > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Unknown students for this school: "+joinIDs(missing))
	}

	rows := req.ToModels(tenant.SchoolID, tenant.UserID)
	day := req.Day()
	var saved []model.Attendance
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"class_name", "status", "remarks", "marked_by", "updated_at"}),
		}).Create(&rows).Error; err != nil {
			return err
		}
		return withStudent(tx).
			Where("school_id = ? AND date = ? AND student_id IN ?", tenant.SchoolID, day, req.StudentIDs()).
			Order("student_id ASC").
			Find(&saved).Error
	})
	if err != nil {
		ctl.Log.Error("mark attendance failed", zap.Uint("school_id", tenant.SchoolID), zap.Error(err))
		return helper.FromError(c, err)
	}

	ctl.Audit.Record(c.UserContext(), activity.Entry(c, tenant.SchoolID, activityModel.ActionUpdate, "attendance", 0,
		fmt.Sprintf("Marked attendance for %s on %s", req.ClassName, req.Date),
		map[string]any{"records": len(rows), "date": req.Date, "className": req.ClassName}))

	return helper.JsonOK(c, "Attendance saved successfully", fiber.Map{
		"date":      req.Date,
		"className": req.ClassName,
		"marked":    len(saved),
		"records":   dto.ToAttendanceResponses(saved),
	})
}

// GET /api/attendance
func (ctl *AttendanceController) List(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.Require(); err != nil {
		return helper.FromError(c, err)
	}
	date, err := helper.ParseDateQuery(c, "date")
	if err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "date", "desc", helper.AdminOpts)
	q := tenant.Scope(ctl.DB.WithContext(c.UserContext()).Model(&model.Attendance{}), "attendances.school_id")
	if date != nil {
		q = q.Where("attendances.date = ?", datatypes.Date(*date))
	}
	if v := strings.TrimSpace(c.Query("className")); v != "" {
		q = q.Where("attendances.class_name = ?", v)
	}
	if v := strings.ToLower(strings.TrimSpace(c.Query("status"))); v != "" {
		q = q.Where("attendances.status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.Attendance
	order := p.OrderClause(map[string]string{"date": "attendances.date", "student_id": "attendances.student_id"}, "date")
	if err := withStudent(q).Order(order).Order("attendances.student_id ASC").
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Attendance retrieved successfully", dto.ToAttendanceResponses(rows), helper.BuildMeta(total, p))
}

// GET /api/attendance/students/:studentId/summary
func (ctl *AttendanceController) StudentSummary(c *fiber.Ctx) error {
	studentID, err := helper.ParseIDParam(c, "studentId")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	from, err := helper.ParseDateQuery(c, "from")
	if err != nil {
		return helper.FromError(c, err)
	}
	to, err := helper.ParseDateQuery(c, "to")
	if err != nil {
		return helper.FromError(c, err)
	}
	if from != nil && to != nil && to.Before(*from) {
		return helper.JsonError(c, fiber.StatusBadRequest, "to must not be before from")
	}

	db := ctl.DB.WithContext(c.UserContext())
	var st studentModel.Student
	if err := tenant.Scope(db, "school_id").Select("id", "school_id").First(&st, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.FromError(c, errStudentNotFound)
		}
		return helper.FromError(c, err)
	}

	q := db.Model(&model.Attendance{}).Where("student_id = ?", st.ID)
	if from != nil {
		q = q.Where("date >= ?", datatypes.Date(*from))
	}
	if to != nil {
		q = q.Where("date <= ?", datatypes.Date(*to))
	}
	var rows []struct {
		Status model.Status
		N      int64
	}
	if err := q.Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}

	counts := make(map[model.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	summary := dto.BuildSummary(st.ID, counts)
	summary.From = formatDate(from)
	summary.To = formatDate(to)
	return helper.JsonOK(c, "Attendance summary retrieved successfully", summary)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(helper.DateLayout)
	return &s
}
