package services

import (
	"fmt"
	"time"

	"hr_flow_app_go/models"

	"gorm.io/gorm"
)

// GenerateCaseCode generates a case code for a company.
// Format: INV-{YEAR}-{SEQUENCE}
// Example: INV-2026-0042
func GenerateCaseCode(db *gorm.DB, companyID string, now time.Time) (string, error) {
	currentYear := now.Year()

	// Find the highest sequence number for this company and year
	var maxCase models.DisciplinaryCase
	err := db.Where("company_id = ? AND case_code LIKE ?", companyID, fmt.Sprintf("INV-%d-%%", currentYear)).
		Order("case_code DESC").
		First(&maxCase).Error

	sequence := 1
	if err == nil {
		// Parse sequence from existing case code
		var parsedSeq int
		_, scanErr := fmt.Sscanf(maxCase.CaseCode, fmt.Sprintf("INV-%d-%%d", currentYear), &parsedSeq)
		if scanErr == nil {
			sequence = parsedSeq + 1
		}
	} else if err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to query max case code: %w", err)
	}

	return fmt.Sprintf("INV-%d-%04d", currentYear, sequence), nil
}

// EnsureUniqueCaseCode generates a collision-free case code with retry logic.
// A composite unique index on (company_id, case_code) backs this up: a racer
// that slips through the check still cannot persist a duplicate.
func EnsureUniqueCaseCode(db *gorm.DB, companyID string, now time.Time) (string, error) {
	const maxRetries = 10

	for i := 0; i < maxRetries; i++ {
		caseCode, err := GenerateCaseCode(db, companyID, now)
		if err != nil {
			return "", err
		}

		// Check if case code already exists
		var count int64
		if err := db.Model(&models.DisciplinaryCase{}).
			Where("company_id = ? AND case_code = ?", companyID, caseCode).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check case code uniqueness: %w", err)
		}

		if count == 0 {
			return caseCode, nil
		}

		// Collision detected, retry
	}

	return "", fmt.Errorf("failed to generate unique case code after %d retries", maxRetries)
}
