package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payroll period status constants
const (
	PayrollPeriodOpen   = "OPEN"
	PayrollPeriodLocked = "LOCKED"
)

// PayrollPeriod represents one payroll cycle; locked periods accept no
// further adjustments
type PayrollPeriod struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyID string    `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string    `gorm:"not null" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	Status   string     `gorm:"not null;default:OPEN" json:"status"`
	LockedAt *time.Time `json:"locked_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *PayrollPeriod) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for PayrollPeriod model
func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}

// IsLocked checks whether the period no longer accepts adjustments
func (p *PayrollPeriod) IsLocked() bool {
	return p.Status == PayrollPeriodLocked || p.LockedAt != nil
}
