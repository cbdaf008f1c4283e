package database

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schoolerp_backend/internals/configs"
	activityModel "schoolerp_backend/internals/features/activity_logs/model"
	attendanceModel "schoolerp_backend/internals/features/academics/attendance/model"
	diaryModel "schoolerp_backend/internals/features/academics/diary/model"
	feeModel "schoolerp_backend/internals/features/finance/fee_structures/model"
	transportModel "schoolerp_backend/internals/features/finance/transport/model"
	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
	studentModel "schoolerp_backend/internals/features/schools/students/model"
	teacherModel "schoolerp_backend/internals/features/schools/teachers/model"
)

func Connect(cfg *configs.Config, log *zap.Logger) (*gorm.DB, error) {
	log.Info("connecting to PostgreSQL", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	log.Info("database connected")
	return db, nil
}

func TunePool(db *gorm.DB, cfg *configs.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// WarmUp pings the pool in the background so the first request does not pay for the dial.
func WarmUp(db *gorm.DB, log *zap.Logger) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(context.Background(), db); err != nil {
			log.Warn("warm-up ping failed", zap.Error(err))
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&schoolModel.School{},
		&teacherModel.Teacher{},
		&transportModel.TransportRoute{},
		&transportModel.TransportStop{},
		&studentModel.Student{},
		&feeModel.FeeStructure{},
		&feeModel.FeeCategory{},
		&attendanceModel.Attendance{},
		&diaryModel.DiaryEntry{},
		&activityModel.ActivityLog{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
