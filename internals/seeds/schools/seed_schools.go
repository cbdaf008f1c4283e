// Package schools loads demo schools with their fee structures and
// transport routes.
package schools

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	feeDTO "schoolerp_backend/internals/features/finance/fee_structures/dto"
	transportDTO "schoolerp_backend/internals/features/finance/transport/dto"
	"schoolerp_backend/internals/features/schools/schools/model"
)

//go:embed data_schools.json
var DefaultData []byte

type SchoolSeed struct {
	Name            string                                     `json:"name"`
	Code            string                                     `json:"code"`
	Address         *string                                    `json:"address"`
	Phone           *string                                    `json:"phone"`
	Email           *string                                    `json:"email"`
	FeeStructures   []feeDTO.FeeStructureCreateRequest         `json:"feeStructures"`
	TransportRoutes []transportDTO.TransportRouteCreateRequest `json:"transportRoutes"`
}

// SeedSchoolsFromJSON inserts every school whose code is not taken yet.
// Each school is written in its own transaction; existing codes are skipped.
func SeedSchoolsFromJSON(db *gorm.DB, data []byte, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var seeds []SchoolSeed
	if err := sonic.Unmarshal(data, &seeds); err != nil {
		return 0, fmt.Errorf("seeds: decode schools: %w", err)
	}

	created := 0
	for _, s := range seeds {
		code := strings.ToUpper(strings.TrimSpace(s.Code))
		var existing model.School
		err := db.Select("id").Where("code = ?", code).First(&existing).Error
		if err == nil {
			log.Info("school already seeded, skipping", zap.String("code", code))
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}

		if err := db.Transaction(func(tx *gorm.DB) error { return seedOne(tx, s, code) }); err != nil {
			return created, fmt.Errorf("seeds: school %s: %w", code, err)
		}
		created++
		log.Info("school seeded", zap.String("code", code), zap.String("name", s.Name))
	}
	return created, nil
}

func seedOne(tx *gorm.DB, s SchoolSeed, code string) error {
	school := model.School{
		Name:    strings.TrimSpace(s.Name),
		Code:    code,
		Address: s.Address,
		Phone:   s.Phone,
		Email:   s.Email,
		Status:  model.SchoolStatusActive,
	}
	if err := tx.Create(&school).Error; err != nil {
		return err
	}

	for _, req := range s.FeeStructures {
		req.Normalize()
		fs := req.ToModel(school.ID)
		if err := tx.Omit(clause.Associations).Create(&fs).Error; err != nil {
			return err
		}
		if cats := feeDTO.CategoriesToModels(fs.ID, req.Categories); len(cats) > 0 {
			if err := tx.Create(&cats).Error; err != nil {
				return err
			}
		}
	}

	for _, req := range s.TransportRoutes {
		req.Normalize()
		route := req.ToModel(school.ID)
		if err := tx.Omit(clause.Associations).Create(&route).Error; err != nil {
			return err
		}
		if stops := transportDTO.StopsToModels(route.ID, req.Stops); len(stops) > 0 {
			if err := tx.Create(&stops).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
