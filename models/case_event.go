package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseEventType identifies the transition a log row records
type CaseEventType string

const (
	EventCaseCreated                 CaseEventType = "CASE_CREATED"
	EventCancelled                   CaseEventType = "CANCELLED"
	EventInformalActionSent          CaseEventType = "INFORMAL_ACTION_SENT"
	EventEmployeeAcknowledged        CaseEventType = "EMPLOYEE_ACKNOWLEDGED"
	EventEmployeeInformalResponse    CaseEventType = "EMPLOYEE_INFORMAL_RESPONSE"
	EventOfficialInvestigationOpened CaseEventType = "OFFICIAL_INVESTIGATION_OPENED"
	EventHearingScheduled            CaseEventType = "HEARING_SCHEDULED"
	EventMinutesUploaded             CaseEventType = "MINUTES_UPLOADED"
	EventDecisionIssued              CaseEventType = "DECISION_ISSUED"
	EventEmployeeObjected            CaseEventType = "EMPLOYEE_OBJECTED"
	EventObjectionReviewed           CaseEventType = "OBJECTION_REVIEWED"
	EventLegalHoldToggled            CaseEventType = "LEGAL_HOLD_TOGGLED"
	EventAttachmentUploaded          CaseEventType = "ATTACHMENT_UPLOADED"
	EventFinalized                   CaseEventType = "FINALIZED"
)

// CaseEvent is an append-only audit row; one row per transition.
// Rows are never updated or deleted. Ordering by created_at is the
// authoritative case history.
type CaseEvent struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_event_case_created" json:"created_at"`

	CaseID      string        `gorm:"type:uuid;not null;index:idx_event_case_created" json:"case_id"`
	ActorUserID string        `gorm:"type:uuid;not null" json:"actor_user_id"`
	EventType   CaseEventType `gorm:"not null" json:"event_type"`
	Message     string        `gorm:"type:text" json:"message"`

	// Relationships
	Actor *User `gorm:"foreignKey:ActorUserID" json:"actor,omitempty"`
}

// BeforeCreate hook to generate UUID
func (e *CaseEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseEvent model
func (CaseEvent) TableName() string {
	return "case_events"
}
