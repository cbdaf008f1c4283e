// file: internals/features/finance/fee_structures/model/fee_structure_model.go
package model

import (
	"time"

	"github.com/shopspring/decimal"

	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
)

// --- ENUM frequency ----------------------------------------------------------
type Frequency string

const (
	FrequencyMonthly    Frequency = "Monthly"
	FrequencyQuarterly  Frequency = "Quarterly"
	FrequencyHalfYearly Frequency = "Half-Yearly"
	FrequencyAnnually   Frequency = "Annually"
	FrequencyOneTime    Frequency = "One-Time"
)

// --- MODEL fee_structures ----------------------------------------------------
// One tuition plan per (school, class).
type FeeStructure struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	SchoolID       uint            `json:"schoolId" gorm:"not null;uniqueIndex:uq_fee_structures_school_class,priority:1"`
	ClassName      string          `json:"className" gorm:"type:varchar(100);not null;uniqueIndex:uq_fee_structures_school_class,priority:2"`
	Description    *string         `json:"description,omitempty" gorm:"type:text"`
	TotalAnnualFee decimal.Decimal `json:"totalAnnualFee" gorm:"type:numeric(12,2);not null;default:0"`

	School     *schoolModel.School `json:"school,omitempty" gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE"`
	Categories []FeeCategory       `json:"categories" gorm:"foreignKey:FeeStructureID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (FeeStructure) TableName() string { return "fee_structures" }

// --- MODEL fee_categories ----------------------------------------------------
// Line items owned by a FeeStructure; removed with it by the FK cascade.
type FeeCategory struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	FeeStructureID uint            `json:"feeStructureId" gorm:"not null;index"`
	Name           string          `json:"name" gorm:"type:varchar(100);not null;index"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null;default:0"`
	Frequency      Frequency       `json:"frequency" gorm:"type:varchar(20);not null;default:'Monthly'"`
	Description    *string         `json:"description,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (FeeCategory) TableName() string { return "fee_categories" }
