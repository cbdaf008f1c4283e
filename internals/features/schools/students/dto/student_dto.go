// file: internals/features/schools/students/dto/student_dto.go
package dto

import (
	"strings"
	"time"

	"schoolerp_backend/internals/features/schools/students/model"
)

type StudentCreateRequest struct {
	Name             string  `json:"name" validate:"required,max=150"`
	AdmissionNo      string  `json:"admissionNo" validate:"required,max=50"`
	ClassName        string  `json:"className" validate:"required,max=100"`
	Section          *string `json:"section,omitempty" validate:"omitempty,max=50"`
	ParentName       *string `json:"parentName,omitempty" validate:"omitempty,max=150"`
	ParentPhone      *string `json:"parentPhone,omitempty" validate:"omitempty,max=30"`
	TransportRouteID *uint   `json:"transportRouteId,omitempty"`
	Status           string  `json:"status" validate:"omitempty,oneof=active inactive graduated"`
}

// StudentUpdateRequest is partial. transportRouteId 0 detaches the student
// from its route.
type StudentUpdateRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	AdmissionNo      *string `json:"admissionNo,omitempty" validate:"omitempty,min=1,max=50"`
	ClassName        *string `json:"className,omitempty" validate:"omitempty,min=1,max=100"`
	Section          *string `json:"section,omitempty" validate:"omitempty,max=50"`
	ParentName       *string `json:"parentName,omitempty" validate:"omitempty,max=150"`
	ParentPhone      *string `json:"parentPhone,omitempty" validate:"omitempty,max=30"`
	TransportRouteID *uint   `json:"transportRouteId,omitempty"`
	Status           *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive graduated"`
}

func trim(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

func (r *StudentCreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AdmissionNo = strings.ToUpper(strings.TrimSpace(r.AdmissionNo))
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.Section = trim(r.Section)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if r.TransportRouteID != nil && *r.TransportRouteID == 0 {
		r.TransportRouteID = nil
	}
}

func (r *StudentUpdateRequest) Normalize() {
	r.Name = trim(r.Name)
	if r.AdmissionNo != nil {
		s := strings.ToUpper(strings.TrimSpace(*r.AdmissionNo))
		r.AdmissionNo = &s
	}
	r.ClassName = trim(r.ClassName)
	r.Section = trim(r.Section)
	if r.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &s
	}
}

func (r StudentCreateRequest) ToModel(schoolID uint) model.Student {
	status := model.StudentStatus(r.Status)
	if status == "" {
		status = model.StudentStatusActive
	}
	return model.Student{
		SchoolID:         schoolID,
		Name:             r.Name,
		AdmissionNo:      r.AdmissionNo,
		ClassName:        r.ClassName,
		Section:          r.Section,
		ParentName:       r.ParentName,
		ParentPhone:      r.ParentPhone,
		TransportRouteID: r.TransportRouteID,
		Status:           status,
	}
}

func (r StudentUpdateRequest) Changes() map[string]any {
	out := map[string]any{}
	if r.Name != nil {
		out["name"] = *r.Name
	}
	if r.AdmissionNo != nil {
		out["admission_no"] = *r.AdmissionNo
	}
	if r.ClassName != nil {
		out["class_name"] = *r.ClassName
	}
	if r.Section != nil {
		out["section"] = *r.Section
	}
	if r.ParentName != nil {
		out["parent_name"] = *r.ParentName
	}
	if r.ParentPhone != nil {
		out["parent_phone"] = *r.ParentPhone
	}
	if r.TransportRouteID != nil {
		if *r.TransportRouteID == 0 {
			out["transport_route_id"] = nil
		} else {
			out["transport_route_id"] = *r.TransportRouteID
		}
	}
	if r.Status != nil {
		out["status"] = *r.Status
	}
	return out
}

type StudentResponse struct {
	ID               uint      `json:"id"`
	SchoolID         uint      `json:"schoolId"`
	Name             string    `json:"name"`
	AdmissionNo      string    `json:"admissionNo"`
	ClassName        string    `json:"className"`
	Section          *string   `json:"section,omitempty"`
	ParentName       *string   `json:"parentName,omitempty"`
	ParentPhone      *string   `json:"parentPhone,omitempty"`
	TransportRouteID *uint     `json:"transportRouteId,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func ToStudentResponse(m model.Student) StudentResponse {
	return StudentResponse{
		ID:               m.ID,
		SchoolID:         m.SchoolID,
		Name:             m.Name,
		AdmissionNo:      m.AdmissionNo,
		ClassName:        m.ClassName,
		Section:          m.Section,
		ParentName:       m.ParentName,
		ParentPhone:      m.ParentPhone,
		TransportRouteID: m.TransportRouteID,
		Status:           string(m.Status),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ToStudentResponses(list []model.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToStudentResponse(m))
	}
	return out
}
