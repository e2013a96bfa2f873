package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payroll adjustment status constants
const (
	AdjustmentPending  = "PENDING"
	AdjustmentApproved = "APPROVED"
	AdjustmentApplied  = "APPLIED"
	AdjustmentRejected = "REJECTED"
)

// Payroll adjustment type constants
const (
	AdjustmentTypeDeduction       = "DEDUCTION"
	AdjustmentTypeSuspensionUnpay = "SUSPENSION_UNPAID"
)

// PayrollAdjustment is created at case finalization when the decision
// carries a monetary or unpaid-leave penalty
type PayrollAdjustment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyID       string `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID      string `gorm:"type:uuid;not null;index" json:"employee_id"`
	CaseID          string `gorm:"type:uuid;not null;index" json:"case_id"`
	PayrollPeriodID string `gorm:"type:uuid;not null;index" json:"payroll_period_id"`

	AdjustmentType string          `gorm:"not null" json:"adjustment_type"` // DEDUCTION, SUSPENSION_UNPAID
	Unit           string          `gorm:"not null" json:"unit"`
	Value          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`
	Status         string          `gorm:"not null;default:PENDING" json:"status"`
	Reason         string          `gorm:"type:text" json:"reason"`
	CreatedByID    string          `gorm:"type:uuid;not null" json:"created_by_id"`
}

// BeforeCreate hook to generate UUID
func (a *PayrollAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for PayrollAdjustment model
func (PayrollAdjustment) TableName() string {
	return "payroll_adjustments"
}
