// file: internals/features/schools/schools/dto/school_dto.go
package dto

import (
	"strings"
	"time"

	"schoolerp_backend/internals/features/schools/schools/model"
)

/* ===================== REQUESTS ===================== */

type SchoolCreateRequest struct {
	Name    string  `json:"name" validate:"required,max=150"`
	Code    string  `json:"code" validate:"required,max=40"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
}

type SchoolUpdateRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Code    *string `json:"code,omitempty" validate:"omitempty,min=1,max=40"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func normCode(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

func (r *SchoolCreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = normCode(r.Code)
	r.Phone = trimPtr(r.Phone)
	r.Email = trimPtr(r.Email)
}

func (r *SchoolUpdateRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	if r.Code != nil {
		c := normCode(*r.Code)
		r.Code = &c
	}
	r.Phone = trimPtr(r.Phone)
	r.Email = trimPtr(r.Email)
	if r.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &s
	}
}

func (r SchoolCreateRequest) ToModel() model.School {
	return model.School{
		Name:    r.Name,
		Code:    r.Code,
		Address: r.Address,
		Phone:   r.Phone,
		Email:   r.Email,
		Status:  model.SchoolStatusActive,
	}
}

// Changes returns the columns present in the request.
func (r SchoolUpdateRequest) Changes() map[string]any {
	out := map[string]any{}
	if r.Name != nil {
		out["name"] = *r.Name
	}
	if r.Code != nil {
		out["code"] = *r.Code
	}
	if r.Address != nil {
		out["address"] = *r.Address
	}
	if r.Phone != nil {
		out["phone"] = *r.Phone
	}
	if r.Email != nil {
		out["email"] = *r.Email
	}
	if r.Status != nil {
		out["status"] = *r.Status
	}
	return out
}

/* ===================== RESPONSES ===================== */

type SchoolResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToSchoolResponse(m model.School) SchoolResponse {
	return SchoolResponse{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		Address:   m.Address,
		Phone:     m.Phone,
		Email:     m.Email,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToSchoolResponses(list []model.School) []SchoolResponse {
	out := make([]SchoolResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToSchoolResponse(m))
	}
	return out
}
