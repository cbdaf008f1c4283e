// file: internals/features/finance/fee_structures/controller/fee_structure_controller.go
package controller

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	activityModel "schoolerp_backend/internals/features/activity_logs/model"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	"schoolerp_backend/internals/features/finance/fee_structures/dto"
	"schoolerp_backend/internals/features/finance/fee_structures/model"
	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
	schoolService "schoolerp_backend/internals/features/schools/schools/service"
	helper "schoolerp_backend/internals/helpers"
	helperAuth "schoolerp_backend/internals/helpers/auth"
)

const entityFeeStructure = "fee_structure"

var (
	errFeeStructureNotFound = fiber.NewError(fiber.StatusNotFound, "Fee structure not found")
	errUpdateNotFound       = fiber.NewError(fiber.StatusNotFound, "Fee structure not found or you don't have permission to update it")
	errClassNameRequired    = fiber.NewError(fiber.StatusBadRequest, "Class name is required")
)

/* =========================
   Controller & Constructor
   ========================= */

type FeeStructureController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Audit    *activity.Recorder
	Log      *zap.Logger
}

func New(db *gorm.DB, v *validator.Validate, audit *activity.Recorder, log *zap.Logger) *FeeStructureController {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeeStructureController{DB: db, Validate: v, Audit: audit, Log: log.Named("fee_structures")}
}

/* =========================
   Helpers
   ========================= */

func duplicateClassError(className string) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Fee structure for class %q already exists", className))
}

// withDetail preloads categories and the reduced school view.
func withDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Categories", func(tx *gorm.DB) *gorm.DB { return tx.Order("fee_categories.id ASC") }).
		Preload("School", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "name", "code") })
}

func (ctl *FeeStructureController) fail(c *fiber.Ctx, op string, err error) error {
	var fe *fiber.Error
	var ve validator.ValidationErrors
	if !errors.As(err, &fe) && !errors.As(err, &ve) && !helper.IsUniqueViolation(err) {
		ctl.Log.Error(op+" failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return helper.FromError(c, err)
}

func (ctl *FeeStructureController) validate(in any) error {
	if ctl.Validate == nil {
		return nil
	}
	return ctl.Validate.Struct(in)
}

func (ctl *FeeStructureController) classNameTaken(db *gorm.DB, schoolID uint, className string, exceptID uint) (bool, error) {
	q := db.Model(&model.FeeStructure{}).
		Where("school_id = ? AND class_name = ?", schoolID, className)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (ctl *FeeStructureController) findAll(db *gorm.DB, tenant helperAuth.Tenant) ([]model.FeeStructure, error) {
	var list []model.FeeStructure
	err := tenant.Scope(withDetail(db), "fee_structures.school_id").
		Order("fee_structures.class_name ASC").
		Find(&list).Error
	return list, err
}

/* =========================
   Health
   ========================= */

// GET /api/fee-structures/health
func (ctl *FeeStructureController) Health(c *fiber.Ctx) error {
	return helper.JsonOK(c, "Fee structure service is healthy", fiber.Map{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

/* =========================
   List
   ========================= */

// GET /api/fee-structures
func (ctl *FeeStructureController) List(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return ctl.fail(c, "list", err)
	}
	if err := tenant.Require(); err != nil {
		return ctl.fail(c, "list", err)
	}

	db := ctl.DB.WithContext(c.UserContext())
	list, err := ctl.findAll(db, tenant)
	if err != nil {
		return ctl.fail(c, "list", err)
	}

	if len(list) == 0 && !tenant.All {
		seeded, err := ctl.seedDefaultCategories(db, tenant.SchoolID)
		if err != nil {
			ctl.Log.Warn("default category seeding failed", zap.Uint("school_id", tenant.SchoolID), zap.Error(err))
		} else if seeded {
			if list, err = ctl.findAll(db, tenant); err != nil {
				return ctl.fail(c, "list", err)
			}
		}
	}

	meta := fiber.Map{"total": len(list), "scope": "school"}
	if tenant.All {
		meta["scope"] = "all"
	} else {
		meta["schoolId"] = tenant.SchoolID
	}
	return helper.JsonList(c, "Fee structures retrieved successfully", dto.ToFeeStructureResponses(list), meta)
}

// seedDefaultCategories creates the default catalog for a school that has no
// fee categories yet. It reports whether anything was written.
func (ctl *FeeStructureController) seedDefaultCategories(db *gorm.DB, schoolID uint) (bool, error) {
	seeded := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var names []string
		if err := tx.Model(&model.FeeCategory{}).
			Distinct("fee_categories.name").
			Joins("JOIN fee_structures ON fee_structures.id = fee_categories.fee_structure_id").
			Where("fee_structures.school_id = ?", schoolID).
			Pluck("fee_categories.name", &names).Error; err != nil {
			return err
		}
		if len(names) > 0 {
			return nil
		}

		var school schoolModel.School
		if err := tx.Select("id").First(&school, schoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var holder model.FeeStructure
		if err := tx.Where("school_id = ?", schoolID).Order("id ASC").First(&holder).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			desc := model.SeedDescription
			holder = model.FeeStructure{
				SchoolID:    schoolID,
				ClassName:   model.SeedClassName,
				Description: &desc,
			}
			if err := tx.Omit(clause.Associations).Create(&holder).Error; err != nil {
				return err
			}
		}

		cats := make([]model.FeeCategory, 0, len(model.DefaultCategoryNames))
		for _, name := range model.DefaultCategoryNames {
			cats = append(cats, model.FeeCategory{
				FeeStructureID: holder.ID,
				Name:           name,
				Frequency:      model.FrequencyMonthly,
			})
		}
		if err := tx.Create(&cats).Error; err != nil {
			return err
		}
		seeded = true
		return nil
	})
	return seeded, err
}

/* =========================
   Get
   ========================= */

// GET /api/fee-structures/:id
func (ctl *FeeStructureController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return ctl.fail(c, "get", err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return ctl.fail(c, "get", err)
	}

	var fs model.FeeStructure
	q := tenant.Scope(withDetail(ctl.DB.WithContext(c.UserContext())), "fee_structures.school_id")
	if err := q.First(&fs, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctl.fail(c, "get", errFeeStructureNotFound)
		}
		return ctl.fail(c, "get", err)
	}
	return helper.JsonOK(c, "Fee structure retrieved successfully", dto.ToFeeStructureResponse(fs))
}

/* =========================
   Create
   ========================= */

// POST /api/fee-structures
func (ctl *FeeStructureController) Create(c *fiber.Ctx) error {
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return ctl.fail(c, "create", err)
	}
	if err := tenant.RequireSchool(); err != nil {
		return ctl.fail(c, "create", err)
	}

	var req dto.FeeStructureCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return ctl.fail(c, "create", fiber.NewError(fiber.StatusBadRequest, "Invalid request body"))
	}
	req.Normalize()
	if req.ClassName == "" {
		return ctl.fail(c, "create", errClassNameRequired)
	}
	if err := ctl.validate(&req); err != nil {
		return ctl.fail(c, "create", err)
	}

	db := ctl.DB.WithContext(c.UserContext())

	if _, err := schoolService.RequireActive(db, tenant.SchoolID, "Fee structures"); err != nil {
		return ctl.fail(c, "create", err)
	}

	taken, err := ctl.classNameTaken(db, tenant.SchoolID, req.ClassName, 0)
	if err != nil {
		return ctl.fail(c, "create", err)
	}
	if taken {
		return ctl.fail(c, "create", duplicateClassError(req.ClassName))
	}

	var out model.FeeStructure
	err = db.Transaction(func(tx *gorm.DB) error {
		fs := req.ToModel(tenant.SchoolID)
		if err := tx.Omit(clause.Associations).Create(&fs).Error; err != nil {
			return err
		}
		if cats := dto.CategoriesToModels(fs.ID, req.Categories); len(cats) > 0 {
			if err := tx.Create(&cats).Error; err != nil {
				return err
			}
		}
		return withDetail(tx).First(&out, fs.ID).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return ctl.fail(c, "create", duplicateClassError(req.ClassName))
		}
		return ctl.fail(c, "create", err)
	}

	ctl.Audit.Record(c.UserContext(), activity.Entry(c, out.SchoolID,
		activityModel.ActionCreate, entityFeeStructure, out.ID,
		fmt.Sprintf("Created fee structure for class %s", out.ClassName),
		map[string]any{"categories": len(out.Categories), "totalAnnualFee": out.TotalAnnualFee.String()},
	))

	return helper.JsonCreated(c, "Fee structure created successfully", dto.ToFeeStructureResponse(out))
}

/* =========================
   Update
   ========================= */

// PUT /api/fee-structures/:id
func (ctl *FeeStructureController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return ctl.fail(c, "update", err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return ctl.fail(c, "update", err)
	}

	var req dto.FeeStructureUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return ctl.fail(c, "update", fiber.NewError(fiber.StatusBadRequest, "Invalid request body"))
	}
	req.Normalize()
	if req.ClassName != nil && *req.ClassName == "" {
		return ctl.fail(c, "update", errClassNameRequired)
	}
	if err := ctl.validate(&req); err != nil {
		return ctl.fail(c, "update", err)
	}

	db := ctl.DB.WithContext(c.UserContext())

	var existing model.FeeStructure
	if err := tenant.Scope(db, "school_id").First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctl.fail(c, "update", errUpdateNotFound)
		}
		return ctl.fail(c, "update", err)
	}

	if req.ClassName != nil && *req.ClassName != existing.ClassName {
		taken, err := ctl.classNameTaken(db, existing.SchoolID, *req.ClassName, existing.ID)
		if err != nil {
			return ctl.fail(c, "update", err)
		}
		if taken {
			return ctl.fail(c, "update", duplicateClassError(*req.ClassName))
		}
	}

	var out model.FeeStructure
	err = db.Transaction(func(tx *gorm.DB) error {
		changes := req.Changes()
		if len(changes) == 0 && req.Categories != nil {
			changes["updated_at"] = time.Now()
		}
		if len(changes) > 0 {
			if err := tx.Model(&model.FeeStructure{}).Where("id = ?", existing.ID).Updates(changes).Error; err != nil {
				return err
			}
		}

		if req.Categories != nil {
			if err := tx.Where("fee_structure_id = ?", existing.ID).Delete(&model.FeeCategory{}).Error; err != nil {
				return err
			}
			if cats := dto.CategoriesToModels(existing.ID, *req.Categories); len(cats) > 0 {
				if err := tx.Create(&cats).Error; err != nil {
					return err
				}
			}
		}
		return withDetail(tx).First(&out, existing.ID).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) && req.ClassName != nil {
			return ctl.fail(c, "update", duplicateClassError(*req.ClassName))
		}
		return ctl.fail(c, "update", err)
	}

	meta := map[string]any{"fields": len(req.Changes())}
	if req.Categories != nil {
		meta["categories"] = len(*req.Categories)
	}
	ctl.Audit.Record(c.UserContext(), activity.Entry(c, out.SchoolID,
		activityModel.ActionUpdate, entityFeeStructure, out.ID,
		fmt.Sprintf("Updated fee structure for class %s", out.ClassName), meta,
	))

	return helper.JsonUpdated(c, "Fee structure updated successfully", dto.ToFeeStructureResponse(out))
}

/* =========================
   Delete
   ========================= */

// DELETE /api/fee-structures/:id
// Categories go with the structure through ON DELETE CASCADE.
func (ctl *FeeStructureController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return ctl.fail(c, "delete", err)
	}
	tenant, err := helperAuth.ResolveTenant(c)
	if err != nil {
		return ctl.fail(c, "delete", err)
	}

	db := ctl.DB.WithContext(c.UserContext())

	var fs model.FeeStructure
	if err := tenant.Scope(db, "school_id").Select("id", "school_id").First(&fs, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctl.fail(c, "delete", errFeeStructureNotFound)
		}
		return ctl.fail(c, "delete", err)
	}
	if err := db.Delete(&model.FeeStructure{}, fs.ID).Error; err != nil {
		return ctl.fail(c, "delete", err)
	}
	return helper.JsonDeleted(c, "Fee structure deleted successfully", fiber.Map{"id": fs.ID})
}

/* =========================
   Category names
   ========================= */

// GET /api/fee-structures/categories/all
// Names come from every school, merged with the default catalog.
func (ctl *FeeStructureController) ListCategoryNames(c *fiber.Ctx) error {
	var names []string
	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&model.FeeCategory{}).
		Distinct("name").
		Pluck("name", &names).Error; err != nil {
		return ctl.fail(c, "list categories", err)
	}

	set := make(map[string]struct{}, len(names)+len(model.DefaultCategoryNames))
	for _, n := range model.DefaultCategoryNames {
		set[n] = struct{}{}
	}
	for _, n := range names {
		set[n] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)

	return helper.JsonOK(c, "Fee categories retrieved successfully", out)
}
