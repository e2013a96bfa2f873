package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Case status constants. Status is the single source of truth for the
// workflow position; the coarse stage is always derived via StageFor.
const (
	CaseStatusSubmittedToHR             = "SUBMITTED_TO_HR"
	CaseStatusHRRejected                = "HR_REJECTED"
	CaseStatusHRInformalSent            = "HR_INFORMAL_SENT"
	CaseStatusEmployeeRejectedInformal  = "EMPLOYEE_REJECTED_INFORMAL"
	CaseStatusOfficialInvestigationOpen = "OFFICIAL_INVESTIGATION_OPENED"
	CaseStatusInvestigationInProgress   = "INVESTIGATION_IN_PROGRESS"
	CaseStatusHearingScheduled          = "HEARING_SCHEDULED"
	CaseStatusDecisionIssued            = "DECISION_ISSUED"
	CaseStatusEmployeeObjected          = "EMPLOYEE_OBJECTED"
	CaseStatusFinalizedApproved         = "FINALIZED_APPROVED"
	CaseStatusFinalizedCancelled        = "FINALIZED_CANCELLED"
)

// Case stage constants (coarse workflow phase)
const (
	StageManagerRequest           = "MANAGER_REQUEST"
	StageHRInitialReview          = "HR_INITIAL_REVIEW"
	StageEmployeeInformalResponse = "EMPLOYEE_INFORMAL_RESPONSE"
	StageOfficialInvestigation    = "OFFICIAL_INVESTIGATION"
	StageDecision                 = "DECISION"
	StageObjection                = "OBJECTION"
	StageFinal                    = "FINAL"
)

// Decision type constants
const (
	DecisionNotice                  = "NOTICE"
	DecisionWarning                 = "WARNING"
	DecisionFirstWarning            = "FIRST_WARNING"
	DecisionSecondWarning           = "SECOND_WARNING"
	DecisionFinalWarningTermination = "FINAL_WARNING_TERMINATION"
	DecisionSalaryDeduction         = "SALARY_DEDUCTION"
	DecisionSuspensionWithoutPay    = "SUSPENSION_WITHOUT_PAY"
)

// Penalty unit constants
const (
	PenaltyUnitDays    = "DAYS"
	PenaltyUnitPercent = "PERCENT"
	PenaltyUnitAmount  = "AMOUNT"
)

// Employee acknowledgment status
const (
	AckAccepted = "ACCEPTED"
	AckRejected = "REJECTED"
)

// HR informal action kinds
const (
	InformalActionNotice  = "NOTICE"
	InformalActionWarning = "WARNING"
)

// StageFor derives the coarse stage from a status. Every persisted write
// goes through this mapping so a status/stage mismatch is unrepresentable.
func StageFor(status string) string {
	switch status {
	case CaseStatusSubmittedToHR:
		return StageManagerRequest
	case CaseStatusEmployeeRejectedInformal:
		return StageHRInitialReview
	case CaseStatusHRInformalSent:
		return StageEmployeeInformalResponse
	case CaseStatusOfficialInvestigationOpen, CaseStatusInvestigationInProgress, CaseStatusHearingScheduled:
		return StageOfficialInvestigation
	case CaseStatusDecisionIssued:
		return StageDecision
	case CaseStatusEmployeeObjected:
		return StageObjection
	case CaseStatusHRRejected, CaseStatusFinalizedApproved, CaseStatusFinalizedCancelled:
		return StageFinal
	}
	return ""
}

// DisciplinaryCase is the central workflow entity
type DisciplinaryCase struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Tenant and case identification
	CompanyID string `gorm:"type:uuid;not null;index:idx_case_company_status;uniqueIndex:idx_company_case_code" json:"company_id"`
	CaseCode  string `gorm:"not null;uniqueIndex:idx_company_case_code" json:"case_code"`

	// Parties
	EmployeeID string `gorm:"type:uuid;not null;index" json:"employee_id"`
	ManagerID  string `gorm:"type:uuid;not null;index" json:"manager_id"`

	// Workflow state
	Status string `gorm:"not null;index:idx_case_company_status" json:"status"`
	Stage  string `gorm:"not null" json:"stage"`

	// Incident facts
	Title               string    `json:"title"`
	IncidentDate        time.Time `gorm:"not null" json:"incident_date"`
	IncidentLocation    string    `json:"incident_location"`
	InvolvedParties     string    `gorm:"type:text" json:"involved_parties"`
	Description         string    `gorm:"type:text;not null" json:"description"`
	IsRetrospective     bool      `gorm:"not null;default:false" json:"is_retrospective"`
	RetrospectiveReason string    `gorm:"type:text" json:"retrospective_reason,omitempty"`

	// Policy snapshot, captured at creation and immutable thereafter.
	// The case is governed by the policy in force when it was opened.
	IncidentMaxAgeDaysSnapshot   int    `gorm:"not null" json:"incident_max_age_days_snapshot"`
	DecisionDeadlineDaysSnapshot int    `gorm:"not null" json:"decision_deadline_days_snapshot"`
	ObjectionWindowDaysSnapshot  int    `gorm:"not null" json:"objection_window_days_snapshot"`
	AllowRetrospectiveSnapshot   bool   `gorm:"not null" json:"allow_retrospective_snapshot"`
	DeductionBasePolicySnapshot  string `gorm:"not null" json:"deduction_base_policy_snapshot"`

	// Informal action
	HRInitialAction   string     `json:"hr_initial_action,omitempty"` // NOTICE, WARNING
	HRInitialReason   string     `gorm:"type:text" json:"hr_initial_reason,omitempty"`
	EmployeeAckStatus string     `json:"employee_ack_status,omitempty"` // ACCEPTED, REJECTED
	EmployeeAckAt     *time.Time `json:"employee_ack_at,omitempty"`

	// Official investigation
	OfficialInvestigationOpenedAt *time.Time `json:"official_investigation_opened_at,omitempty"`
	HearingDatetime               *time.Time `json:"hearing_datetime,omitempty"`
	HearingLocation               string     `json:"hearing_location,omitempty"`

	// Decision
	DecisionType         string           `json:"decision_type,omitempty"`
	DecisionReason       string           `gorm:"type:text" json:"decision_reason,omitempty"`
	DecisionCreatedAt    *time.Time       `json:"decision_created_at,omitempty"`
	PenaltyUnit          string           `json:"penalty_unit,omitempty"` // DAYS, PERCENT, AMOUNT
	PenaltyValue         *decimal.Decimal `gorm:"type:decimal(12,2)" json:"penalty_value,omitempty"`
	PenaltyEffectiveDate *time.Time       `json:"penalty_effective_date,omitempty"`
	PayrollPeriodID      *string          `gorm:"type:uuid;index" json:"payroll_period_id,omitempty"`

	// Objection
	ObjectionText          string     `gorm:"type:text" json:"objection_text,omitempty"`
	ObjectionSubmittedAt   *time.Time `json:"objection_submitted_at,omitempty"`
	HRAfterObjectionAction string     `json:"hr_after_objection_action,omitempty"`
	HRAfterObjectionReason string     `gorm:"type:text" json:"hr_after_objection_reason,omitempty"`

	// Terminal state. finalizedAt non-null means the case is immutable;
	// legalHold blocks finalization regardless of any other state.
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	LegalHold   bool       `gorm:"not null;default:false" json:"legal_hold"`

	// Relationships
	Employee      User                         `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Manager       User                         `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	PayrollPeriod *PayrollPeriod               `gorm:"foreignKey:PayrollPeriodID" json:"payroll_period,omitempty"`
	Events        []CaseEvent                  `gorm:"foreignKey:CaseID" json:"events,omitempty"`
	Minutes       []CaseMinute                 `gorm:"foreignKey:CaseID" json:"minutes,omitempty"`
	Attachments   []CaseAttachment             `gorm:"foreignKey:CaseID" json:"attachments,omitempty"`
	Records       []EmployeeDisciplinaryRecord `gorm:"foreignKey:CaseID" json:"records,omitempty"`
	Adjustments   []PayrollAdjustment          `gorm:"foreignKey:CaseID" json:"adjustments,omitempty"`
}

// BeforeCreate hook to generate UUID
func (dc *DisciplinaryCase) BeforeCreate(tx *gorm.DB) error {
	if dc.ID == "" {
		dc.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for DisciplinaryCase model
func (DisciplinaryCase) TableName() string {
	return "disciplinary_cases"
}

// IsFinalized checks whether the case reached a terminal state
func (dc *DisciplinaryCase) IsFinalized() bool {
	return dc.FinalizedAt != nil
}

// InOfficialInvestigation checks whether the case is in the official
// investigation phase (decision issuance and minutes are allowed)
func (dc *DisciplinaryCase) InOfficialInvestigation() bool {
	return StageFor(dc.Status) == StageOfficialInvestigation
}

// HasMonetaryPenalty reports whether the decision implies a payroll impact
func (dc *DisciplinaryCase) HasMonetaryPenalty() bool {
	return dc.DecisionType == DecisionSalaryDeduction || dc.DecisionType == DecisionSuspensionWithoutPay
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	return StageFor(status) != ""
}

// IsWarningDecision reports whether a decision type counts toward the
// prior-warnings escalation guard
func IsWarningDecision(decisionType string) bool {
	switch decisionType {
	case DecisionFirstWarning, DecisionSecondWarning, DecisionWarning:
		return true
	}
	return false
}
