// file: internals/features/academics/diary/controller/diary_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"schoolerp_backend/internals/constants"
	"schoolerp_backend/internals/features/academics/diary/dto"
	"schoolerp_backend/internals/features/academics/diary/model"
	activityModel "schoolerp_backend/internals/features/activity_logs/model"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	helper "schoolerp_backend/internals/helpers"
	helperAuth "schoolerp_backend/internals/helpers/auth"
)

var errEntryNotFound = fiber.NewError(fiber.StatusNotFound, "Diary entry not found")

type DiaryController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Audit    *activity.Recorder
	Log      *zap.Logger
}

func New(db *gorm.DB, v *validator.Validate, audit *activity.Recorder, log *zap.Logger) *DiaryController {
	if log == nil {
		log = zap.NewNop()
	}
	return &DiaryController{DB: db, Validate: v, Audit: audit, Log: log.Named("diary")}
}

// owned narrows q to rows the caller may change. Teachers only reach
// their own entries.
func owned(q *gorm.DB, tenant helperAuth.Tenant) *gorm.DB {
	q = tenant.Scope(q, "school_id")
	if tenant.Role == constants.RoleTeacher {
		q = q.Where("teacher_id = ?", tenant.UserID)
	}
	return q
}

// GET /api/diary
func (ctl *DiaryController) List(c *fiber.Ctx) error {
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

	p := helper.ParseFiber(c, "entry_date", "desc", helper.DefaultOpts)
	q := tenant.Scope(ctl.DB.WithContext(c.UserContext()).Model(&model.DiaryEntry{}), "school_id")
	if date != nil {
		q = q.Where("entry_date = ?", datatypes.Date(*date))
	}
	if v := strings.TrimSpace(c.Query("className")); v != "" {
		q = q.Where("class_name = ?", v)
	}
	if v := strings.TrimSpace(c.Query("subject")); v != "" {
		q = q.Where("subject = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}
	var rows []model.DiaryEntry
	order := p.OrderClause(map[string]string{"entry_date": "entry_date", "created_at": "created_at", "title": "title"}, "entry_date")
	if err := q.Order(order).Order("id DESC").Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Diary entries retrieved successfully", dto.ToDiaryResponses(rows), helper.BuildMeta(total, p))
}

// GET /api/diary/:id
func (ctl *DiaryController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var m model.DiaryEntry
	if err := tenant.Scope(ctl.DB.WithContext(c.UserContext()), "school_id").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.FromError(c, errEntryNotFound)
		}
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Diary entry retrieved successfully", dto.ToDiaryResponse(m))
}

// POST /api/diary
func (ctl *DiaryController) Create(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.RequireSchool(); err != nil {
		return helper.FromError(c, err)
	}

	var req dto.DiaryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var author *uint
	if tenant.Role == constants.RoleTeacher {
		uid := tenant.UserID
		author = &uid
	}
	m := req.ToModel(tenant.SchoolID, author)
	if err := ctl.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		ctl.Log.Error("create diary entry failed", zap.Uint("school_id", tenant.SchoolID), zap.Error(err))
		return helper.FromError(c, err)
	}

	ctl.Audit.Record(c.UserContext(), activity.Entry(c, tenant.SchoolID, activityModel.ActionCreate, "diary_entry", m.ID,
		"Created diary entry "+m.Title, map[string]any{"className": m.ClassName}))
	return helper.JsonCreated(c, "Diary entry created successfully", dto.ToDiaryResponse(m))
}

// PUT /api/diary/:id
func (ctl *DiaryController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.DiaryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	var m model.DiaryEntry
	if err := owned(db, tenant).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.FromError(c, errEntryNotFound)
		}
		return helper.FromError(c, err)
	}

	if changes := req.Changes(); len(changes) > 0 {
		if err := db.Model(&m).Updates(changes).Error; err != nil {
			return helper.FromError(c, err)
		}
	}
	if err := db.First(&m, m.ID).Error; err != nil {
		return helper.FromError(c, err)
	}

	ctl.Audit.Record(c.UserContext(), activity.Entry(c, m.SchoolID, activityModel.ActionUpdate, "diary_entry", m.ID,
		"Updated diary entry "+m.Title, nil))
	return helper.JsonUpdated(c, "Diary entry updated successfully", dto.ToDiaryResponse(m))
}

// DELETE /api/diary/:id
func (ctl *DiaryController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	var m model.DiaryEntry
	if err := owned(db, tenant).Select("id", "school_id").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.FromError(c, errEntryNotFound)
		}
		return helper.FromError(c, err)
	}
	if err := db.Delete(&model.DiaryEntry{}, m.ID).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Diary entry deleted successfully", fiber.Map{"id": m.ID})
}
