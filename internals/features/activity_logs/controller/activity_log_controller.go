package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolerp_backend/internals/features/activity_logs/model"
	helper "schoolerp_backend/internals/helpers"
	helperAuth "schoolerp_backend/internals/helpers/auth"
)

type ActivityLogController struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *ActivityLogController {
	return &ActivityLogController{DB: db}
}

// GET /api/activity-logs
func (ctl *ActivityLogController) List(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.ActivityLog{})
	if !tenant.Unscoped() {
		q = q.Where("school_id = ?", tenant.SchoolID)
	}
	if et := strings.TrimSpace(c.Query("entityType")); et != "" {
		q = q.Where("entity_type = ?", et)
	}
	if act := strings.TrimSpace(c.Query("action")); act != "" {
		q = q.Where("action = ?", act)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}

	var rows []model.ActivityLog
	order := p.OrderClause(map[string]string{"created_at": "created_at", "id": "id"}, "created_at")
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Activity logs retrieved successfully", rows, helper.BuildMeta(total, p))
}
