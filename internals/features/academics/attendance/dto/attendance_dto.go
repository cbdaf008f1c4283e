// file: internals/features/academics/attendance/dto/attendance_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"schoolerp_backend/internals/features/academics/attendance/model"
	helper "schoolerp_backend/internals/helpers"
)

type AttendanceRecord struct {
	StudentID uint    `json:"studentId" validate:"required"`
	Status    string  `json:"status" validate:"required,oneof=present absent late excused"`
	Remarks   *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// MarkAttendanceRequest marks one class for one day.
type MarkAttendanceRequest struct {
	Date      string             `json:"date" validate:"required,datetime=2006-01-02"`
	ClassName string             `json:"className" validate:"required,max=100"`
	Records   []AttendanceRecord `json:"records" validate:"required,min=1,unique=StudentID,dive"`
}

func (r *MarkAttendanceRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.ClassName = strings.TrimSpace(r.ClassName)
	for i := range r.Records {
		r.Records[i].Status = strings.ToLower(strings.TrimSpace(r.Records[i].Status))
	}
}

// Day returns the parsed date; call after validation.
func (r MarkAttendanceRequest) Day() datatypes.Date {
	t, _ := time.Parse(helper.DateLayout, r.Date)
	return datatypes.Date(t)
}

func (r MarkAttendanceRequest) StudentIDs() []uint {
	out := make([]uint, 0, len(r.Records))
	for _, rec := range r.Records {
		out = append(out, rec.StudentID)
	}
	return out
}

func (r MarkAttendanceRequest) ToModels(schoolID, markedBy uint) []model.Attendance {
	day := r.Day()
	out := make([]model.Attendance, 0, len(r.Records))
	for _, rec := range r.Records {
		out = append(out, model.Attendance{
			SchoolID:  schoolID,
			StudentID: rec.StudentID,
			ClassName: r.ClassName,
			Date:      day,
			Status:    model.Status(rec.Status),
			Remarks:   rec.Remarks,
			MarkedBy:  markedBy,
		})
	}
	return out
}

type AttendanceResponse struct {
	ID          uint    `json:"id"`
	StudentID   uint    `json:"studentId"`
	StudentName string  `json:"studentName,omitempty"`
	AdmissionNo string  `json:"admissionNo,omitempty"`
	ClassName   string  `json:"className"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	Remarks     *string `json:"remarks,omitempty"`
	MarkedBy    uint    `json:"markedBy"`
}

func ToAttendanceResponse(m model.Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:        m.ID,
		StudentID: m.StudentID,
		ClassName: m.ClassName,
		Date:      time.Time(m.Date).Format(helper.DateLayout),
		Status:    string(m.Status),
		Remarks:   m.Remarks,
		MarkedBy:  m.MarkedBy,
	}
	if m.Student != nil {
		resp.StudentName = m.Student.Name
		resp.AdmissionNo = m.Student.AdmissionNo
	}
	return resp
}

func ToAttendanceResponses(list []model.Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToAttendanceResponse(m))
	}
	return out
}

type AttendanceSummary struct {
	StudentID  uint             `json:"studentId"`
	From       *string          `json:"from,omitempty"`
	To         *string          `json:"to,omitempty"`
	Total      int64            `json:"total"`
	Counts     map[string]int64 `json:"counts"`
	Percentage decimal.Decimal  `json:"percentage"`
}

// BuildSummary fills every status and computes the share of attended days
// (present or late), rounded to two places.
func BuildSummary(studentID uint, counts map[model.Status]int64) AttendanceSummary {
	s := AttendanceSummary{StudentID: studentID, Counts: make(map[string]int64, len(model.Statuses))}
	var attended int64
	for _, st := range model.Statuses {
		n := counts[st]
		s.Counts[string(st)] = n
		s.Total += n
		if st.Attended() {
			attended += n
		}
	}
	s.Percentage = decimal.Zero
	if s.Total > 0 {
		s.Percentage = decimal.NewFromInt(attended).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(s.Total)).
			Round(2)
	}
	return s
}
