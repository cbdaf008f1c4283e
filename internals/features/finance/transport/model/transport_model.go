// file: internals/features/finance/transport/model/transport_model.go
package model

import (
	"time"

	"github.com/shopspring/decimal"

	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
)

// TransportRoute is a bus route with its ordered stops.
type TransportRoute struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	SchoolID      uint            `json:"schoolId" gorm:"not null;uniqueIndex:uq_transport_routes_school_vehicle,priority:1"`
	RouteName     string          `json:"routeName" gorm:"type:varchar(100);not null"`
	VehicleNumber string          `json:"vehicleNumber" gorm:"type:varchar(30);not null;uniqueIndex:uq_transport_routes_school_vehicle,priority:2"`
	DriverName    *string         `json:"driverName,omitempty" gorm:"type:varchar(150)"`
	DriverPhone   *string         `json:"driverPhone,omitempty" gorm:"type:varchar(30)"`
	Capacity      int             `json:"capacity" gorm:"not null;default:0"`
	MonthlyFee    decimal.Decimal `json:"monthlyFee" gorm:"type:numeric(12,2);not null;default:0"`

	School *schoolModel.School `json:"-" gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE"`
	Stops  []TransportStop     `json:"stops" gorm:"foreignKey:TransportRouteID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (TransportRoute) TableName() string { return "transport_routes" }

type TransportStop struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	TransportRouteID uint    `json:"transportRouteId" gorm:"not null;index"`
	Name             string  `json:"name" gorm:"type:varchar(150);not null"`
	PickupTime       *string `json:"pickupTime,omitempty" gorm:"type:varchar(5)"` // HH:MM
	Sequence         int     `json:"sequence" gorm:"not null;default:0"`
}

func (TransportStop) TableName() string { return "transport_stops" }
