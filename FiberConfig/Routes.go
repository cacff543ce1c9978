package FiberConfig

import (
	"fmt"
	"time"

	"Taskforce/Apis"
	"Taskforce/Constants"
	"Taskforce/Controllers"
	"Taskforce/Models"
	"Taskforce/TaskEngine"
	"Taskforce/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, engine *TaskEngine.Engine, locator TaskEngine.Locator) {
	// Initialize handlers
	taskHandler := Controllers.NewTaskHandler(db, engine)
	approvalHandler := Controllers.NewApprovalHandler(db, engine)
	sessionHandler := Controllers.NewSessionHandler(db, engine, locator)
	tariffHandler := Controllers.NewTariffHandler(db)
	earningsHandler := Apis.NewEarningsHandler(db, engine)

	// Auth
	app.Post("/api/Login", Controllers.Login)
	app.Use("/api/Logout", Controllers.Logout)
	app.Get("/api/User", middleware.Verify(0), Controllers.User)
	app.Post("/api/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)
	app.Post("/api/UpdateToken", middleware.Verify(1), Models.UpdateToken)

	// API group
	api := app.Group("/api")

	// Task routes. Workers operate their own tasks; managers create/delete.
	tasks := api.Group("/tasks", middleware.Verify(1))
	tasks.Get("/", taskHandler.GetAllTasks)
	tasks.Post("/", middleware.Verify(3), taskHandler.CreateTask)
	tasks.Get("/:id", taskHandler.GetTask)
	tasks.Delete("/:id", middleware.Verify(3), taskHandler.DeleteTask)

	// Lifecycle operations
	tasks.Post("/:id/start", taskHandler.StartTask)
	tasks.Post("/:id/pause", taskHandler.PauseTask)
	tasks.Post("/:id/resume", taskHandler.ResumeTask)
	tasks.Post("/:id/submit", taskHandler.SubmitTask)
	tasks.Get("/:id/elapsed", taskHandler.GetElapsed)

	// Evidence
	tasks.Post("/:id/photos", taskHandler.UploadTaskPhoto)
	tasks.Get("/:id/photos", taskHandler.GetTaskPhotos)
	tasks.Patch("/:id/checklist/:itemId", taskHandler.ToggleChecklistItem)
	tasks.Get("/:id/decisions", approvalHandler.GetDecisionHistory)

	// Approval workflow (managers only)
	approvals := api.Group("/approvals", middleware.Verify(3))
	approvals.Get("/pending", approvalHandler.GetPendingApprovals)
	approvals.Post("/", approvalHandler.ProcessApproval)

	// Work sessions
	sessions := api.Group("/sessions", middleware.Verify(1))
	sessions.Post("/start", sessionHandler.StartSession)
	sessions.Post("/end", sessionHandler.EndSession)
	sessions.Get("/active", sessionHandler.GetActiveSession)
	sessions.Get("/", sessionHandler.GetSessions)

	// Tariffs and holidays (managers only)
	tariffs := api.Group("/tariffs", middleware.Verify(3))
	tariffs.Post("/rates", tariffHandler.CreateRate)
	tariffs.Get("/rates/:workerId", tariffHandler.GetWorkerRates)
	tariffs.Delete("/rates/:id", tariffHandler.DeleteRate)
	tariffs.Post("/holidays", tariffHandler.CreateHoliday)
	tariffs.Get("/holidays", tariffHandler.GetHolidays)
	tariffs.Delete("/holidays/:date", tariffHandler.DeleteHoliday)

	// Earnings
	app.Post("/api/GetWorkerEarningsPreview", middleware.Verify(1), earningsHandler.GetWorkerEarningsPreview)
	app.Post("/api/GetWorkerEarnings", middleware.Verify(1), earningsHandler.GetWorkerEarnings)
	app.Post("/api/earnings/export_report", middleware.Verify(3), earningsHandler.ExportEarningsReport)
}

func FiberConfig(engine *TaskEngine.Engine, locator TaskEngine.Locator) {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB, engine, locator)

	// Serve stored task photos
	app.Static("/TaskPhotos", "./"+Constants.PhotoStorageDir(), fiber.Static{Compress: true, CacheDuration: time.Second * 10})

	app.Listen(Constants.ListenAddress())
}
