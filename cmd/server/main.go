package main

import (
	"log"
	"time"

	"hr_flow_app_go/config"
	"hr_flow_app_go/db"
	"hr_flow_app_go/handlers"
	"hr_flow_app_go/middleware"
	"hr_flow_app_go/models"
	"hr_flow_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire services
	storage := services.InitializeStorage(cfg)
	emails := services.NewEmailService(cfg)
	notifications := services.NewNotificationService(db.DB, emails)
	disciplinary := services.NewDisciplinaryService(db.DB, notifications, storage)

	disciplinaryHandler := handlers.NewDisciplinaryHandler(disciplinary)
	notificationHandler := handlers.NewNotificationHandler(notifications)
	decisionLetterHandler := handlers.NewDecisionLetterHandler(disciplinary)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/login", handlers.LoginHandler)

	// Protected routes
	protected := e.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/logout", handlers.LogoutHandler)
		protected.GET("/me", handlers.GetCurrentUserHandler)

		// Notifications
		protected.GET("/notifications", notificationHandler.ListUnread)
		protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		// Disciplinary cases
		cases := protected.Group("/disciplinary/cases")
		{
			cases.POST("", disciplinaryHandler.CreateCase, middleware.RequirePermission(middleware.PermCaseCreate))
			cases.GET("", disciplinaryHandler.ListCases, middleware.RequirePermission(middleware.PermCaseView))
			cases.GET("/:id", disciplinaryHandler.GetCase, middleware.RequirePermission(middleware.PermCaseView))

			// Employee responses
			cases.POST("/:id/employee-informal-response", disciplinaryHandler.EmployeeInformalResponse, middleware.RequirePermission(middleware.PermEmployeeRespond))
			cases.POST("/:id/employee-decision-response", disciplinaryHandler.EmployeeDecisionResponse, middleware.RequirePermission(middleware.PermEmployeeRespond))

			// Evidence uploads (any case participant)
			cases.POST("/:id/attachments", disciplinaryHandler.CreateAttachment, middleware.RequirePermission(middleware.PermCaseView))
			cases.POST("/:id/upload-files", disciplinaryHandler.UploadFiles, middleware.RequirePermission(middleware.PermCaseView))
			cases.GET("/:id/decision-letter", decisionLetterHandler.DownloadPDF, middleware.RequirePermission(middleware.PermCaseView))

			// HR transitions, each gated by its own permission
			cases.POST("/:id/hr-review", disciplinaryHandler.HRReview, middleware.RequirePermission(middleware.PermHRReview))
			cases.POST("/:id/decision", disciplinaryHandler.IssueDecision, middleware.RequirePermission(middleware.PermHRDecision))
			cases.POST("/:id/objection-review", disciplinaryHandler.ObjectionReview, middleware.RequirePermission(middleware.PermHRDecision))
			cases.POST("/:id/finalize", disciplinaryHandler.Finalize, middleware.RequirePermission(middleware.PermHRFinalize))
			cases.POST("/:id/schedule-hearing", disciplinaryHandler.ScheduleHearing, middleware.RequirePermission(middleware.PermHRReview))
			cases.POST("/:id/minutes", disciplinaryHandler.UploadMinutes, middleware.RequirePermission(middleware.PermHRReview))
			cases.POST("/:id/toggle-hold", disciplinaryHandler.ToggleLegalHold, middleware.RequirePermission(middleware.PermLegalHoldToggle))
		}

		// Open payroll periods for monetary decisions (HR only)
		protected.GET("/disciplinary/payroll-periods", disciplinaryHandler.ListPayrollPeriods, middleware.RequireRole(models.RoleHR, models.RoleAdmin))

		// Case register export (HR only)
		protected.GET("/disciplinary/export", handlers.ExportCaseRegister, middleware.RequirePermission(middleware.PermCaseExport))
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
