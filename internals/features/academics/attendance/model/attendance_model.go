// file: internals/features/academics/attendance/model/attendance_model.go
package model

import (
	"time"

	"gorm.io/datatypes"

	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
	studentModel "schoolerp_backend/internals/features/schools/students/model"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// Attended reports whether the status counts toward the attendance rate.
func (s Status) Attended() bool { return s == StatusPresent || s == StatusLate }

// Attendance is one student's mark for one day; re-marking a day overwrites it.
type Attendance struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	SchoolID  uint           `json:"schoolId" gorm:"not null;index:idx_attendances_school_date,priority:1"`
	StudentID uint           `json:"studentId" gorm:"not null;uniqueIndex:uq_attendances_student_date,priority:1"`
	ClassName string         `json:"className" gorm:"type:varchar(100);not null"`
	Date      datatypes.Date `json:"date" gorm:"not null;uniqueIndex:uq_attendances_student_date,priority:2;index:idx_attendances_school_date,priority:2"`
	Status    Status         `json:"status" gorm:"type:varchar(10);not null"`
	Remarks   *string        `json:"remarks,omitempty" gorm:"type:text"`
	MarkedBy  uint           `json:"markedBy" gorm:"not null"`

	School  *schoolModel.School   `json:"-" gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE"`
	Student *studentModel.Student `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Attendance) TableName() string { return "attendances" }
