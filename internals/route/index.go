// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"schoolerp_backend/internals/configs"
	attendanceController "schoolerp_backend/internals/features/academics/attendance/controller"
	attendanceRoute "schoolerp_backend/internals/features/academics/attendance/route"
	diaryController "schoolerp_backend/internals/features/academics/diary/controller"
	diaryRoute "schoolerp_backend/internals/features/academics/diary/route"
	activityController "schoolerp_backend/internals/features/activity_logs/controller"
	activityRoute "schoolerp_backend/internals/features/activity_logs/route"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	feeController "schoolerp_backend/internals/features/finance/fee_structures/controller"
	feeRoute "schoolerp_backend/internals/features/finance/fee_structures/route"
	transportController "schoolerp_backend/internals/features/finance/transport/controller"
	transportRoute "schoolerp_backend/internals/features/finance/transport/route"
	schoolController "schoolerp_backend/internals/features/schools/schools/controller"
	schoolRoute "schoolerp_backend/internals/features/schools/schools/route"
	studentController "schoolerp_backend/internals/features/schools/students/controller"
	studentRoute "schoolerp_backend/internals/features/schools/students/route"
	teacherController "schoolerp_backend/internals/features/schools/teachers/controller"
	teacherRoute "schoolerp_backend/internals/features/schools/teachers/route"
	helper "schoolerp_backend/internals/helpers"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

var startTime time.Time

// SetupRoutes mounts the base routes and every feature under /api.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *configs.Config, log *zap.Logger) {
	startTime = time.Now()

	validate := helper.NewValidator()
	audit := activity.NewRecorder(db, cfg.IsProduction(), log.Named("activity"))
	auth := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              cfg.JWTSecret,
		AllowCookieFallback: true,
	})

	BaseRoutes(app, db, cfg)

	api := app.Group("/api")

	log.Info("mounting school routes")
	schoolRoute.SchoolRoutes(api, schoolController.New(db, validate, audit), auth)
	teacherRoute.TeacherRoutes(api, teacherController.New(db, validate, audit), auth)
	studentRoute.StudentRoutes(api, studentController.New(db, validate, audit), auth)

	log.Info("mounting finance routes")
	feeRoute.FeeStructureRoutes(api, feeController.New(db, validate, audit, log), auth)
	transportRoute.TransportRoutes(api, transportController.New(db, validate, audit, log), auth)

	log.Info("mounting academics routes")
	attendanceRoute.AttendanceRoutes(api, attendanceController.New(db, validate, audit, log), auth)
	diaryRoute.DiaryRoutes(api, diaryController.New(db, validate, audit, log), auth)

	activityRoute.ActivityLogRoutes(api, activityController.New(db), auth)
}
