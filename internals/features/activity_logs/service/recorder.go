package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"schoolerp_backend/internals/features/activity_logs/model"
)

// Recorder writes ActivityLog rows when enabled (production only). Failures
// are logged and swallowed: callers have already committed their own work.
type Recorder struct {
	DB      *gorm.DB
	Enabled bool
	Log     *zap.Logger
}

func NewRecorder(db *gorm.DB, enabled bool, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{DB: db, Enabled: enabled, Log: log}
}

func (r *Recorder) Record(ctx context.Context, entry model.ActivityLog) {
	if r == nil || !r.Enabled {
		return
	}
	if err := r.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		r.Log.Warn("activity log write failed",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.Uint("entity_id", entry.EntityID),
			zap.Error(err))
	}
}
