// file: internals/features/academics/diary/model/diary_model.go
package model

import (
	"time"

	"gorm.io/datatypes"

	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
)

// DiaryEntry is homework or a class note for one class on one day.
// TeacherID holds the author's user id when a teacher wrote it.
type DiaryEntry struct {
	ID          uint                        `json:"id" gorm:"primaryKey"`
	SchoolID    uint                        `json:"schoolId" gorm:"not null;index:idx_diary_school_class_date,priority:1"`
	TeacherID   *uint                       `json:"teacherId,omitempty" gorm:"index"`
	ClassName   string                      `json:"className" gorm:"type:varchar(100);not null;index:idx_diary_school_class_date,priority:2"`
	Section     *string                     `json:"section,omitempty" gorm:"type:varchar(50)"`
	Subject     *string                     `json:"subject,omitempty" gorm:"type:varchar(100)"`
	Title       string                      `json:"title" gorm:"type:varchar(200);not null"`
	Content     string                      `json:"content" gorm:"type:text;not null"`
	EntryDate   datatypes.Date              `json:"entryDate" gorm:"not null;index:idx_diary_school_class_date,priority:3"`
	Attachments datatypes.JSONSlice[string] `json:"attachments" gorm:"not null"`

	School *schoolModel.School `json:"-" gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (DiaryEntry) TableName() string { return "diary_entries" }
