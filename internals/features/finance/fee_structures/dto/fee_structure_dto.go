// file: internals/features/finance/fee_structures/dto/fee_structure_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"schoolerp_backend/internals/features/finance/fee_structures/model"
)

////////////////////////////////////////////////////////////////////////////////
// REQUESTS
////////////////////////////////////////////////////////////////////////////////

type FeeCategoryRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Amount      decimal.Decimal `json:"amount" validate:"min=0,lte=9999999999.99"`
	Frequency   string          `json:"frequency" validate:"omitempty,oneof=Monthly Quarterly Half-Yearly Annually One-Time"`
	Description *string         `json:"description,omitempty"`
}

// Create
type FeeStructureCreateRequest struct {
	ClassName      string               `json:"className" validate:"required,max=100"`
	Description    *string              `json:"description,omitempty"`
	TotalAnnualFee *decimal.Decimal     `json:"totalAnnualFee,omitempty" validate:"omitempty,min=0,lte=9999999999.99"`
	Categories     []FeeCategoryRequest `json:"categories" validate:"omitempty,dive"`
}

// Update (partial). A present `categories` array, even an empty one,
// replaces the whole set.
type FeeStructureUpdateRequest struct {
	ClassName      *string               `json:"className,omitempty" validate:"omitempty,min=1,max=100"`
	Description    *string               `json:"description,omitempty"`
	TotalAnnualFee *decimal.Decimal      `json:"totalAnnualFee,omitempty" validate:"omitempty,min=0,lte=9999999999.99"`
	Categories     *[]FeeCategoryRequest `json:"categories,omitempty" validate:"omitempty,dive"`
}

// Normalize trims text input in place.
func (r *FeeStructureCreateRequest) Normalize() {
	r.ClassName = strings.TrimSpace(r.ClassName)
	for i := range r.Categories {
		r.Categories[i].Name = strings.TrimSpace(r.Categories[i].Name)
	}
}

func (r *FeeStructureUpdateRequest) Normalize() {
	if r.ClassName != nil {
		s := strings.TrimSpace(*r.ClassName)
		r.ClassName = &s
	}
	if r.Categories != nil {
		for i := range *r.Categories {
			(*r.Categories)[i].Name = strings.TrimSpace((*r.Categories)[i].Name)
		}
	}
}

////////////////////////////////////////////////////////////////////////////////
// RESPONSES
////////////////////////////////////////////////////////////////////////////////

type SchoolSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type FeeCategoryResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	Description *string         `json:"description,omitempty"`
}

type FeeStructureResponse struct {
	ID             uint                  `json:"id"`
	SchoolID       uint                  `json:"schoolId"`
	ClassName      string                `json:"className"`
	Description    *string               `json:"description,omitempty"`
	TotalAnnualFee decimal.Decimal       `json:"totalAnnualFee"`
	Categories     []FeeCategoryResponse `json:"categories"`
	School         *SchoolSummary        `json:"school,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

////////////////////////////////////////////////////////////////////////////////
// MAPPERS
////////////////////////////////////////////////////////////////////////////////

func frequencyOrDefault(s string) model.Frequency {
	if strings.TrimSpace(s) == "" {
		return model.FrequencyMonthly
	}
	return model.Frequency(s)
}

// CategoriesToModels builds the child rows of structureID.
func CategoriesToModels(structureID uint, in []FeeCategoryRequest) []model.FeeCategory {
	out := make([]model.FeeCategory, 0, len(in))
	for _, c := range in {
		out = append(out, model.FeeCategory{
			FeeStructureID: structureID,
			Name:           c.Name,
			Amount:         c.Amount,
			Frequency:      frequencyOrDefault(c.Frequency),
			Description:    c.Description,
		})
	}
	return out
}

func (r FeeStructureCreateRequest) ToModel(schoolID uint) model.FeeStructure {
	total := decimal.Zero
	if r.TotalAnnualFee != nil {
		total = *r.TotalAnnualFee
	}
	return model.FeeStructure{
		SchoolID:       schoolID,
		ClassName:      r.ClassName,
		Description:    r.Description,
		TotalAnnualFee: total,
	}
}

// Changes returns the scalar columns present in the request.
func (r FeeStructureUpdateRequest) Changes() map[string]any {
	out := map[string]any{}
	if r.ClassName != nil {
		out["class_name"] = *r.ClassName
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.TotalAnnualFee != nil {
		out["total_annual_fee"] = *r.TotalAnnualFee
	}
	return out
}

func ToFeeStructureResponse(m model.FeeStructure) FeeStructureResponse {
	cats := make([]FeeCategoryResponse, 0, len(m.Categories))
	for _, c := range m.Categories {
		cats = append(cats, FeeCategoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Amount:      c.Amount,
			Frequency:   string(c.Frequency),
			Description: c.Description,
		})
	}
	resp := FeeStructureResponse{
		ID:             m.ID,
		SchoolID:       m.SchoolID,
		ClassName:      m.ClassName,
		Description:    m.Description,
		TotalAnnualFee: m.TotalAnnualFee,
		Categories:     cats,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.School != nil {
		resp.School = &SchoolSummary{ID: m.School.ID, Name: m.School.Name, Code: m.School.Code}
	}
	return resp
}

func ToFeeStructureResponses(list []model.FeeStructure) []FeeStructureResponse {
	out := make([]FeeStructureResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToFeeStructureResponse(m))
	}
	return out
}
