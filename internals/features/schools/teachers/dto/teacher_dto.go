// file: internals/features/schools/teachers/dto/teacher_dto.go
package dto

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"schoolerp_backend/internals/features/schools/teachers/model"
	helper "schoolerp_backend/internals/helpers"
)

/* ===================== REQUESTS ===================== */

type TeacherCreateRequest struct {
	Name          string   `json:"name" validate:"required,max=150"`
	Email         string   `json:"email" validate:"required,email,max=150"`
	Phone         *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Qualification *string  `json:"qualification,omitempty" validate:"omitempty,max=150"`
	Subjects      []string `json:"subjects" validate:"omitempty,dive,required,max=100"`
	Sections      []string `json:"sections" validate:"omitempty,dive,required,max=50"`
	Documents     []string `json:"documents" validate:"omitempty,dive,required,url"`
	Status        string   `json:"status" validate:"omitempty,oneof=active inactive"`
	JoinedAt      *string  `json:"joinedAt,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type TeacherUpdateRequest struct {
	Name          *string   `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Email         *string   `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Phone         *string   `json:"phone,omitempty" validate:"omitempty,max=30"`
	Qualification *string   `json:"qualification,omitempty" validate:"omitempty,max=150"`
	Subjects      *[]string `json:"subjects,omitempty" validate:"omitempty,dive,required,max=100"`
	Sections      *[]string `json:"sections,omitempty" validate:"omitempty,dive,required,max=50"`
	Documents     *[]string `json:"documents,omitempty" validate:"omitempty,dive,required,url"`
	Status        *string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	JoinedAt      *string   `json:"joinedAt,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// cleanList trims entries, drops blanks and duplicates, keeps order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (r *TeacherCreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Subjects = cleanList(r.Subjects)
	r.Sections = cleanList(r.Sections)
	r.Documents = cleanList(r.Documents)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

func (r *TeacherUpdateRequest) Normalize() {
	if r.Name != nil {
		s := strings.TrimSpace(*r.Name)
		r.Name = &s
	}
	if r.Email != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &s
	}
	for _, p := range []*[]string{r.Subjects, r.Sections, r.Documents} {
		if p != nil {
			*p = cleanList(*p)
		}
	}
	if r.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &s
	}
}

func parseDate(s *string) *datatypes.Date {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := time.Parse(helper.DateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	d := datatypes.Date(t)
	return &d
}

func (r TeacherCreateRequest) ToModel(schoolID uint) model.Teacher {
	status := model.TeacherStatus(r.Status)
	if status == "" {
		status = model.TeacherStatusActive
	}
	return model.Teacher{
		SchoolID:      schoolID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Qualification: r.Qualification,
		Subjects:      datatypes.NewJSONSlice(r.Subjects),
		Sections:      datatypes.NewJSONSlice(r.Sections),
		Documents:     datatypes.NewJSONSlice(r.Documents),
		Status:        status,
		JoinedAt:      parseDate(r.JoinedAt),
	}
}

// Changes returns the columns present in the request.
func (r TeacherUpdateRequest) Changes() map[string]any {
	out := map[string]any{}
	if r.Name != nil {
		out["name"] = *r.Name
	}
	if r.Email != nil {
		out["email"] = *r.Email
	}
	if r.Phone != nil {
		out["phone"] = *r.Phone
	}
	if r.Qualification != nil {
		out["qualification"] = *r.Qualification
	}
	if r.Subjects != nil {
		out["subjects"] = datatypes.NewJSONSlice(*r.Subjects)
	}
	if r.Sections != nil {
		out["sections"] = datatypes.NewJSONSlice(*r.Sections)
	}
	if r.Documents != nil {
		out["documents"] = datatypes.NewJSONSlice(*r.Documents)
	}
	if r.Status != nil {
		out["status"] = *r.Status
	}
	if d := parseDate(r.JoinedAt); d != nil {
		out["joined_at"] = *d
	}
	return out
}

/* ===================== RESPONSES ===================== */

type TeacherResponse struct {
	ID            uint      `json:"id"`
	SchoolID      uint      `json:"schoolId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	Qualification *string   `json:"qualification,omitempty"`
	Subjects      []string  `json:"subjects"`
	Sections      []string  `json:"sections"`
	Documents     []string  `json:"documents"`
	Status        string    `json:"status"`
	JoinedAt      *string   `json:"joinedAt,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func ToTeacherResponse(m model.Teacher) TeacherResponse {
	resp := TeacherResponse{
		ID:            m.ID,
		SchoolID:      m.SchoolID,
		Name:          m.Name,
		Email:         m.Email,
		Phone:         m.Phone,
		Qualification: m.Qualification,
		Subjects:      nonNil(m.Subjects),
		Sections:      nonNil(m.Sections),
		Documents:     nonNil(m.Documents),
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.JoinedAt != nil {
		s := time.Time(*m.JoinedAt).Format(helper.DateLayout)
		resp.JoinedAt = &s
	}
	return resp
}

func ToTeacherResponses(list []model.Teacher) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToTeacherResponse(m))
	}
	return out
}
