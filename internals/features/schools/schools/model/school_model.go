package model

import "time"

type SchoolStatus string

const (
	SchoolStatusActive   SchoolStatus = "active"
	SchoolStatusInactive SchoolStatus = "inactive"
)

// School is the tenant: every other row carries its id.
type School struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:varchar(150);not null"`
	Code      string       `json:"code" gorm:"type:varchar(40);not null;uniqueIndex:uq_schools_code"`
	Address   *string      `json:"address,omitempty" gorm:"type:text"`
	Phone     *string      `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Email     *string      `json:"email,omitempty" gorm:"type:varchar(150)"`
	Status    SchoolStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt time.Time    `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (School) TableName() string { return "schools" }

func (s School) IsInactive() bool { return s.Status == SchoolStatusInactive }
