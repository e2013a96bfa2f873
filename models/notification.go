package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeCaseSubmitted    = "CASE_SUBMITTED"
	NotificationTypeHearingScheduled = "HEARING_SCHEDULED"
	NotificationTypeDecisionIssued   = "DECISION_ISSUED"
	NotificationTypeEmployeeObjected = "EMPLOYEE_OBJECTED"
	NotificationTypeCaseFinalized    = "CASE_FINALIZED"
	NotificationTypeSystem           = "SYSTEM"
)

type Notification struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Targeting
	CompanyID string  `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID    *string `gorm:"type:uuid;index" json:"user_id,omitempty"` // null = all HR users of the company

	// Context
	CaseID *string `gorm:"type:uuid" json:"case_id,omitempty"`

	// Content
	Type    string `gorm:"not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	LinkURL string `json:"link_url,omitempty"` // e.g., "/disciplinary/cases/{case_id}"

	// Read tracking
	ReadAt *time.Time `json:"read_at,omitempty"`

	// Relationships
	User *User             `gorm:"foreignKey:UserID" json:"-"`
	Case *DisciplinaryCase `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
