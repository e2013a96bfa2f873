package db

import (
	"fmt"
	"log"

	"hr_flow_app_go/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// workflowModels is the full schema of the disciplinary workflow. Migration
// order matters for the foreign keys: companies and users before cases,
// cases before their child tables.
var workflowModels = []interface{}{
	&models.Company{},
	&models.User{},
	&models.Session{},
	&models.CompanyDisciplinaryPolicy{},
	&models.DisciplinaryCase{},
	&models.CaseEvent{},
	&models.CaseMinute{},
	&models.CaseAttachment{},
	&models.EmployeeDisciplinaryRecord{},
	&models.PayrollPeriod{},
	&models.PayrollAdjustment{},
	&models.Notification{},
}

// Initialize sets up the database connection with WAL mode for concurrency
func Initialize(dbPath string, environment string) error {
	var err error

	// Keep the gorm query log quiet outside development
	logLevel := logger.Info
	if environment == "production" {
		logLevel = logger.Warn
	}

	// WAL keeps case reads open while HR transitions write
	dsn := dbPath + "?_journal_mode=WAL&_foreign_keys=on"

	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established (WAL mode enabled)")
	return nil
}

// Migrate runs the schema migration for the disciplinary workflow models
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(workflowModels...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
