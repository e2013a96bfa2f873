package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseMinute holds the minutes of one hearing session. Append-only per session.
type CaseMinute struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CaseID         string `gorm:"type:uuid;not null;index" json:"case_id"`
	SessionNo      int    `gorm:"not null" json:"session_no"`
	MinutesText    string `gorm:"type:text" json:"minutes_text,omitempty"`
	MinutesFileURL string `json:"minutes_file_url,omitempty"`
	CreatedByHRID  string `gorm:"type:uuid;not null" json:"created_by_hr_id"`
}

// BeforeCreate hook to generate UUID
func (m *CaseMinute) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseMinute model
func (CaseMinute) TableName() string {
	return "case_minutes"
}
