// file: internals/features/finance/transport/dto/transport_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"schoolerp_backend/internals/features/finance/transport/model"
)

type TransportStopRequest struct {
	Name       string  `json:"name" validate:"required,max=150"`
	PickupTime *string `json:"pickupTime,omitempty" validate:"omitempty,datetime=15:04"`
}

type TransportRouteCreateRequest struct {
	RouteName     string                 `json:"routeName" validate:"required,max=100"`
	VehicleNumber string                 `json:"vehicleNumber" validate:"required,max=30"`
	DriverName    *string                `json:"driverName,omitempty" validate:"omitempty,max=150"`
	DriverPhone   *string                `json:"driverPhone,omitempty" validate:"omitempty,max=30"`
	Capacity      int                    `json:"capacity" validate:"min=0"`
	MonthlyFee    *decimal.Decimal       `json:"monthlyFee,omitempty" validate:"omitempty,min=0,lte=9999999999.99"`
	Stops         []TransportStopRequest `json:"stops" validate:"omitempty,dive"`
}

// TransportRouteUpdateRequest is partial; a present `stops` array replaces
// every stop of the route.
type TransportRouteUpdateRequest struct {
	RouteName     *string                 `json:"routeName,omitempty" validate:"omitempty,min=1,max=100"`
	VehicleNumber *string                 `json:"vehicleNumber,omitempty" validate:"omitempty,min=1,max=30"`
	DriverName    *string                 `json:"driverName,omitempty" validate:"omitempty,max=150"`
	DriverPhone   *string                 `json:"driverPhone,omitempty" validate:"omitempty,max=30"`
	Capacity      *int                    `json:"capacity,omitempty" validate:"omitempty,min=0"`
	MonthlyFee    *decimal.Decimal        `json:"monthlyFee,omitempty" validate:"omitempty,min=0,lte=9999999999.99"`
	Stops         *[]TransportStopRequest `json:"stops,omitempty" validate:"omitempty,dive"`
}

func normVehicle(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func (r *TransportRouteCreateRequest) Normalize() {
	r.RouteName = strings.TrimSpace(r.RouteName)
	r.VehicleNumber = normVehicle(r.VehicleNumber)
	for i := range r.Stops {
		r.Stops[i].Name = strings.TrimSpace(r.Stops[i].Name)
	}
}

func (r *TransportRouteUpdateRequest) Normalize() {
	if r.RouteName != nil {
		s := strings.TrimSpace(*r.RouteName)
		r.RouteName = &s
	}
	if r.VehicleNumber != nil {
		s := normVehicle(*r.VehicleNumber)
		r.VehicleNumber = &s
	}
	if r.Stops != nil {
		for i := range *r.Stops {
			(*r.Stops)[i].Name = strings.TrimSpace((*r.Stops)[i].Name)
		}
	}
}

// StopsToModels numbers stops in request order starting at 1.
func StopsToModels(routeID uint, in []TransportStopRequest) []model.TransportStop {
	out := make([]model.TransportStop, 0, len(in))
	for i, s := range in {
		out = append(out, model.TransportStop{
			TransportRouteID: routeID,
			Name:             s.Name,
			PickupTime:       s.PickupTime,
			Sequence:         i + 1,
		})
	}
	return out
}

func (r TransportRouteCreateRequest) ToModel(schoolID uint) model.TransportRoute {
	fee := decimal.Zero
	if r.MonthlyFee != nil {
		fee = *r.MonthlyFee
	}
	return model.TransportRoute{
		SchoolID:      schoolID,
		RouteName:     r.RouteName,
		VehicleNumber: r.VehicleNumber,
		DriverName:    r.DriverName,
		DriverPhone:   r.DriverPhone,
		Capacity:      r.Capacity,
		MonthlyFee:    fee,
	}
}

func (r TransportRouteUpdateRequest) Changes() map[string]any {
	out := map[string]any{}
	if r.RouteName != nil {
		out["route_name"] = *r.RouteName
	}
	if r.VehicleNumber != nil {
		out["vehicle_number"] = *r.VehicleNumber
	}
	if r.DriverName != nil {
		out["driver_name"] = *r.DriverName
	}
	if r.DriverPhone != nil {
		out["driver_phone"] = *r.DriverPhone
	}
	if r.Capacity != nil {
		out["capacity"] = *r.Capacity
	}
	if r.MonthlyFee != nil {
		out["monthly_fee"] = *r.MonthlyFee
	}
	return out
}

type TransportStopResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	PickupTime *string `json:"pickupTime,omitempty"`
	Sequence   int     `json:"sequence"`
}

type TransportRouteResponse struct {
	ID            uint                    `json:"id"`
	SchoolID      uint                    `json:"schoolId"`
	RouteName     string                  `json:"routeName"`
	VehicleNumber string                  `json:"vehicleNumber"`
	DriverName    *string                 `json:"driverName,omitempty"`
	DriverPhone   *string                 `json:"driverPhone,omitempty"`
	Capacity      int                     `json:"capacity"`
	MonthlyFee    decimal.Decimal         `json:"monthlyFee"`
	Stops         []TransportStopResponse `json:"stops"`
	StudentCount  *int64                  `json:"studentCount,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

func ToTransportRouteResponse(m model.TransportRoute) TransportRouteResponse {
	stops := make([]TransportStopResponse, 0, len(m.Stops))
	for _, s := range m.Stops {
		stops = append(stops, TransportStopResponse{ID: s.ID, Name: s.Name, PickupTime: s.PickupTime, Sequence: s.Sequence})
	}
	return TransportRouteResponse{
		ID:            m.ID,
		SchoolID:      m.SchoolID,
		RouteName:     m.RouteName,
		VehicleNumber: m.VehicleNumber,
		DriverName:    m.DriverName,
		DriverPhone:   m.DriverPhone,
		Capacity:      m.Capacity,
		MonthlyFee:    m.MonthlyFee,
		Stops:         stops,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
