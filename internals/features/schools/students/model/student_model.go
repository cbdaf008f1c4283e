// file: internals/features/schools/students/model/student_model.go
package model

import (
	"time"

	transportModel "schoolerp_backend/internals/features/finance/transport/model"
	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
)

type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusGraduated StudentStatus = "graduated"
)

type Student struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	SchoolID         uint          `json:"schoolId" gorm:"not null;uniqueIndex:uq_students_school_admission,priority:1;index:idx_students_school_class,priority:1"`
	Name             string        `json:"name" gorm:"type:varchar(150);not null"`
	AdmissionNo      string        `json:"admissionNo" gorm:"type:varchar(50);not null;uniqueIndex:uq_students_school_admission,priority:2"`
	ClassName        string        `json:"className" gorm:"type:varchar(100);not null;index:idx_students_school_class,priority:2"`
	Section          *string       `json:"section,omitempty" gorm:"type:varchar(50)"`
	ParentName       *string       `json:"parentName,omitempty" gorm:"type:varchar(150)"`
	ParentPhone      *string       `json:"parentPhone,omitempty" gorm:"type:varchar(30)"`
	TransportRouteID *uint         `json:"transportRouteId,omitempty" gorm:"index"`
	Status           StudentStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`

	School         *schoolModel.School            `json:"-" gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE"`
	TransportRoute *transportModel.TransportRoute `json:"-" gorm:"foreignKey:TransportRouteID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Student) TableName() string { return "students" }
