package services

import (
	"fmt"

	"hr_flow_app_go/models"

	"gorm.io/gorm"
)

// LogCaseEvent appends one audit row for a case transition. The caller's
// unit of work is always passed explicitly: inside a transaction pass the
// tx handle, otherwise pass the base handle. There is no ambient client.
func LogCaseEvent(tx *gorm.DB, caseID, actorUserID string, eventType models.CaseEventType, message string) error {
	event := models.CaseEvent{
		CaseID:      caseID,
		ActorUserID: actorUserID,
		EventType:   eventType,
		Message:     message,
	}

	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to append case event: %w", err)
	}
	return nil
}

// GetCaseEvents returns the full event history of a case in chronological
// order, which is the authoritative case history
func GetCaseEvents(db *gorm.DB, caseID string) ([]models.CaseEvent, error) {
	var events []models.CaseEvent
	err := db.Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

// GetRecentCaseEvents returns the latest events of a case, newest first
func GetRecentCaseEvents(db *gorm.DB, caseID string, limit int) ([]models.CaseEvent, error) {
	var events []models.CaseEvent
	err := db.Where("case_id = ?", caseID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
