package service

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"schoolerp_backend/internals/features/activity_logs/model"
	helperAuth "schoolerp_backend/internals/helpers/auth"
	"schoolerp_backend/internals/middlewares"
)

// Entry fills the caller fields of an ActivityLog from the request.
func Entry(c *fiber.Ctx, schoolID uint, action, entityType string, entityID uint, description string, meta map[string]any) model.ActivityLog {
	e := model.ActivityLog{
		UserID:      helperAuth.GetUserID(c),
		Role:        helperAuth.GetRole(c),
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		RequestID:   middlewares.GetRequestID(c),
	}
	if schoolID != 0 {
		e.SchoolID = &schoolID
	}
	if len(meta) > 0 {
		e.Metadata = datatypes.JSONMap(meta)
	}
	return e
}
