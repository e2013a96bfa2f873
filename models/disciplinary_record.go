package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PenaltyMetadata captures the penalty attached to a record
type PenaltyMetadata struct {
	Unit  string           `json:"unit,omitempty"`
	Value *decimal.Decimal `json:"value,omitempty"`
}

// EmployeeDisciplinaryRecord is the permanent record created exactly once
// when a case is finalized (or an informal action accepted). Later policy
// checks, such as counting prior warnings, read from this table.
type EmployeeDisciplinaryRecord struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	EmployeeID      string    `gorm:"type:uuid;not null;index:idx_record_employee_decision" json:"employee_id"`
	CaseID          string    `gorm:"type:uuid;not null;index" json:"case_id"`
	DecisionType    string    `gorm:"not null;index:idx_record_employee_decision" json:"decision_type"`
	Reason          string    `gorm:"type:text" json:"reason"`
	EffectiveDate   time.Time `gorm:"not null" json:"effective_date"`
	PenaltyMetadata string    `gorm:"type:text" json:"penalty_metadata,omitempty"` // JSON encoded
}

// BeforeCreate hook to generate UUID
func (r *EmployeeDisciplinaryRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for EmployeeDisciplinaryRecord model
func (EmployeeDisciplinaryRecord) TableName() string {
	return "employee_disciplinary_records"
}

// SetPenaltyMetadata encodes the penalty metadata as JSON
func (r *EmployeeDisciplinaryRecord) SetPenaltyMetadata(meta PenaltyMetadata) error {
	bytes, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	r.PenaltyMetadata = string(bytes)
	return nil
}

// GetPenaltyMetadata decodes the stored penalty metadata
func (r *EmployeeDisciplinaryRecord) GetPenaltyMetadata() (PenaltyMetadata, error) {
	var meta PenaltyMetadata
	if r.PenaltyMetadata == "" {
		return meta, nil
	}
	err := json.Unmarshal([]byte(r.PenaltyMetadata), &meta)
	return meta, err
}
