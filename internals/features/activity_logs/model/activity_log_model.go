package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// ActivityLog is a best-effort audit trail of create/update actions. It is
// never read back by the write paths that produce it.
type ActivityLog struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	SchoolID    *uint             `json:"schoolId,omitempty" gorm:"index"`
	UserID      uint              `json:"userId" gorm:"not null;index"`
	Role        string            `json:"role" gorm:"type:varchar(20);not null"`
	Action      string            `json:"action" gorm:"type:varchar(32);not null"`
	EntityType  string            `json:"entityType" gorm:"type:varchar(64);not null;index"`
	EntityID    uint              `json:"entityId" gorm:"not null"`
	Description string            `json:"description" gorm:"type:text"`
	RequestID   string            `json:"requestId,omitempty" gorm:"type:varchar(64)"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt" gorm:"autoCreateTime;index"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
