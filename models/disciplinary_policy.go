package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deduction base policy constants
const (
	DeductionBaseBasicFixed  = "BASIC_FIXED"
	DeductionBaseFullPackage = "FULL_PACKAGE"
)

// CompanyDisciplinaryPolicy is the per-company workflow configuration.
// Absence of a row falls back to the built-in defaults.
type CompanyDisciplinaryPolicy struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyID string `gorm:"type:uuid;not null;uniqueIndex" json:"company_id"`

	IncidentMaxAgeDays          int    `gorm:"not null;default:30" json:"incident_max_age_days"`
	DecisionDeadlineDays        int    `gorm:"not null;default:30" json:"decision_deadline_days"`
	ObjectionWindowDays         int    `gorm:"not null;default:15" json:"objection_window_days"`
	AllowRetrospectiveIncidents bool   `gorm:"not null;default:false" json:"allow_retrospective_incidents"`
	DeductionBasePolicy         string `gorm:"not null;default:BASIC_FIXED" json:"deduction_base_policy"`
}

// BeforeCreate hook to generate UUID
func (p *CompanyDisciplinaryPolicy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CompanyDisciplinaryPolicy model
func (CompanyDisciplinaryPolicy) TableName() string {
	return "company_disciplinary_policies"
}
