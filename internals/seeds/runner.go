package seeds

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"schoolerp_backend/internals/seeds/schools"
)

// RunAllSeeds loads the bundled demo data. Safe to run on every boot.
func RunAllSeeds(db *gorm.DB, log *zap.Logger) error {
	n, err := schools.SeedSchoolsFromJSON(db, schools.DefaultData, log)
	if err != nil {
		return err
	}
	log.Info("seeding finished", zap.Int("schools_created", n))
	return nil
}
