// file: internals/features/schools/teachers/model/teacher_model.go
package model

import (
	"time"

	"gorm.io/datatypes"

	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
)

type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "active"
	TeacherStatusInactive TeacherStatus = "inactive"
)

// Teacher is a staff member of one school. Subject, section and document
// lists are JSON columns; the domain only sees []string.
type Teacher struct {
	ID            uint                        `json:"id" gorm:"primaryKey"`
	SchoolID      uint                        `json:"schoolId" gorm:"not null;uniqueIndex:uq_teachers_school_email,priority:1"`
	Name          string                      `json:"name" gorm:"type:varchar(150);not null"`
	Email         string                      `json:"email" gorm:"type:varchar(150);not null;uniqueIndex:uq_teachers_school_email,priority:2"`
	Phone         *string                     `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Qualification *string                     `json:"qualification,omitempty" gorm:"type:varchar(150)"`
	Subjects      datatypes.JSONSlice[string] `json:"subjects" gorm:"not null"`
	Sections      datatypes.JSONSlice[string] `json:"sections" gorm:"not null"`
	Documents     datatypes.JSONSlice[string] `json:"documents" gorm:"not null"`
	Status        TeacherStatus               `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	JoinedAt      *datatypes.Date             `json:"joinedAt,omitempty"`

	School *schoolModel.School `json:"-" gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Teacher) TableName() string { return "teachers" }
