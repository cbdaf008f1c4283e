// file: internals/features/finance/transport/controller/transport_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	activityModel "schoolerp_backend/internals/features/activity_logs/model"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	"schoolerp_backend/internals/features/finance/transport/dto"
	"schoolerp_backend/internals/features/finance/transport/model"
	schoolService "schoolerp_backend/internals/features/schools/schools/service"
	studentModel "schoolerp_backend/internals/features/schools/students/model"
	helper "schoolerp_backend/internals/helpers"
	helperAuth "schoolerp_backend/internals/helpers/auth"
)

const entityTransportRoute = "transport_route"

var errRouteNotFound = fiber.NewError(fiber.StatusNotFound, "Transport route not found")

func duplicateVehicle(v string) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Vehicle %q is already assigned to a route", v))
}

type TransportController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Audit    *activity.Recorder
	Log      *zap.Logger
}

func New(db *gorm.DB, v *validator.Validate, audit *activity.Recorder, log *zap.Logger) *TransportController {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransportController{DB: db, Validate: v, Audit: audit, Log: log.Named("transport")}
}

func withStops(db *gorm.DB) *gorm.DB {
	return db.Preload("Stops", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("transport_stops.sequence ASC, transport_stops.id ASC")
	})
}

func (ctl *TransportController) vehicleTaken(db *gorm.DB, schoolID uint, vehicle string, exceptID uint) (bool, error) {
	q := db.Model(&model.TransportRoute{}).Where("school_id = ? AND vehicle_number = ?", schoolID, vehicle)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// studentCounts maps route id to the number of students riding it.
func (ctl *TransportController) studentCounts(db *gorm.DB, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		TransportRouteID uint
		N                int64
	}
	if err := db.Model(&studentModel.Student{}).
		Select("transport_route_id, COUNT(*) AS n").
		Where("transport_route_id IN ?", ids).
		Group("transport_route_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.TransportRouteID] = r.N
	}
	return out, nil
}

func (ctl *TransportController) respond(db *gorm.DB, list []model.TransportRoute) ([]dto.TransportRouteResponse, error) {
	ids := make([]uint, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	counts, err := ctl.studentCounts(db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransportRouteResponse, 0, len(list))
	for _, r := range list {
		resp := dto.ToTransportRouteResponse(r)
		n := counts[r.ID]
		resp.StudentCount = &n
		out = append(out, resp)
	}
	return out, nil
}

func (ctl *TransportController) fail(c *fiber.Ctx, op string, err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) && !helper.IsUniqueViolation(err) {
		ctl.Log.Error(op+" failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return helper.FromError(c, err)
}

// GET /api/transport
func (ctl *TransportController) List(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.Require(); err != nil {
		return helper.FromError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	q := tenant.Scope(withStops(db), "transport_routes.school_id")
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(route_name) LIKE ? OR LOWER(vehicle_number) LIKE ?", like, like)
	}

	var list []model.TransportRoute
	if err := q.Order("route_name ASC").Find(&list).Error; err != nil {
		return ctl.fail(c, "list", err)
	}
	out, err := ctl.respond(db, list)
	if err != nil {
		return ctl.fail(c, "list", err)
	}
	return helper.JsonList(c, "Transport routes retrieved successfully", out, fiber.Map{"total": len(out)})
}

// GET /api/transport/:id
func (ctl *TransportController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	var m model.TransportRoute
	if err := tenant.Scope(withStops(db), "transport_routes.school_id").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.FromError(c, errRouteNotFound)
		}
		return ctl.fail(c, "get", err)
	}
	out, err := ctl.respond(db, []model.TransportRoute{m})
	if err != nil {
		return ctl.fail(c, "get", err)
	}
	return helper.JsonOK(c, "Transport route retrieved successfully", out[0])
}

// POST /api/transport
func (ctl *TransportController) Create(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := tenant.RequireSchool(); err != nil {
		return helper.FromError(c, err)
	}

	var req dto.TransportRouteCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	if _, err := schoolService.RequireActive(db, tenant.SchoolID, "Transport routes"); err != nil {
		return helper.FromError(c, err)
	}
	taken, err := ctl.vehicleTaken(db, tenant.SchoolID, req.VehicleNumber, 0)
	if err != nil {
		return ctl.fail(c, "create", err)
	}
	if taken {
		return helper.FromError(c, duplicateVehicle(req.VehicleNumber))
	}

	var out model.TransportRoute
	err = db.Transaction(func(tx *gorm.DB) error {
		m := req.ToModel(tenant.SchoolID)
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return err
		}
		if stops := dto.StopsToModels(m.ID, req.Stops); len(stops) > 0 {
			if err := tx.Create(&stops).Error; err != nil {
				return err
			}
		}
		return withStops(tx).First(&out, m.ID).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.FromError(c, duplicateVehicle(req.VehicleNumber))
		}
		return ctl.fail(c, "create", err)
	}

	ctl.Audit.Record(c.UserContext(), activity.Entry(c, out.SchoolID, activityModel.ActionCreate, entityTransportRoute, out.ID,
		fmt.Sprintf("Created transport route %s", out.RouteName), map[string]any{"stops": len(out.Stops)}))

	resp := dto.ToTransportRouteResponse(out)
	var zero int64
	resp.StudentCount = &zero
	return helper.JsonCreated(c, "Transport route created successfully", resp)
}

// PUT /api/transport/:id
func (ctl *TransportController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.TransportRouteUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	var existing model.TransportRoute
	if err := tenant.Scope(db, "school_id").First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.FromError(c, errRouteNotFound)
		}
		return ctl.fail(c, "update", err)
	}
	if req.VehicleNumber != nil && *req.VehicleNumber != existing.VehicleNumber {
		taken, err := ctl.vehicleTaken(db, existing.SchoolID, *req.VehicleNumber, existing.ID)
		if err != nil {
			return ctl.fail(c, "update", err)
		}
		if taken {
			return helper.FromError(c, duplicateVehicle(*req.VehicleNumber))
		}
	}

	var out model.TransportRoute
	err = db.Transaction(func(tx *gorm.DB) error {
		changes := req.Changes()
		if len(changes) == 0 && req.Stops != nil {
			changes["updated_at"] = time.Now()
		}
		if len(changes) > 0 {
			if err := tx.Model(&model.TransportRoute{}).Where("id = ?", existing.ID).Updates(changes).Error; err != nil {
				return err
			}
		}
		if req.Stops != nil {
			if err := tx.Where("transport_route_id = ?", existing.ID).Delete(&model.TransportStop{}).Error; err != nil {
				return err
			}
			if stops := dto.StopsToModels(existing.ID, *req.Stops); len(stops) > 0 {
				if err := tx.Create(&stops).Error; err != nil {
					return err
				}
			}
		}
		return withStops(tx).First(&out, existing.ID).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) && req.VehicleNumber != nil {
			return helper.FromError(c, duplicateVehicle(*req.VehicleNumber))
		}
		return ctl.fail(c, "update", err)
	}

	ctl.Audit.Record(c.UserContext(), activity.Entry(c, out.SchoolID, activityModel.ActionUpdate, entityTransportRoute, out.ID,
		fmt.Sprintf("Updated transport route %s", out.RouteName), map[string]any{"stops": len(out.Stops)}))

	resp, err := ctl.respond(db, []model.TransportRoute{out})
	if err != nil {
		return ctl.fail(c, "update", err)
	}
	return helper.JsonUpdated(c, "Transport route updated successfully", resp[0])
}

// DELETE /api/transport/:id
// Stops cascade; riders keep their record with the route cleared.
func (ctl *TransportController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	var m model.TransportRoute
	if err := tenant.Scope(db, "school_id").Select("id").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.FromError(c, errRouteNotFound)
		}
		return ctl.fail(c, "delete", err)
	}
	if err := db.Delete(&model.TransportRoute{}, m.ID).Error; err != nil {
		return ctl.fail(c, "delete", err)
	}
	return helper.JsonDeleted(c, "Transport route deleted successfully", fiber.Map{"id": m.ID})
}
