package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"hr_flow_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Disciplinary workflow errors
var (
	ErrCaseNotFound                = errors.New("disciplinary case not found")
	ErrEmployeeNotInCompany        = errors.New("employee not found in this company")
	ErrIncidentTooOld              = errors.New("incident date exceeds the allowed age limit")
	ErrRetrospectiveReasonRequired = errors.New("a reason is required for a retrospective incident")
	ErrNotInInitialReview          = errors.New("case is not awaiting initial HR review")
	ErrNoInformalAction            = errors.New("no informal action awaiting a response")
	ErrNotCaseEmployee             = errors.New("cannot respond to another employee's case")
	ErrNotInOfficialInvestigation  = errors.New("case must be in official investigation stage")
	ErrDecisionDeadlinePassed      = errors.New("the decision deadline has passed")
	ErrPayrollPeriodNotFound       = errors.New("payroll period not found in this company")
	ErrPayrollPeriodLocked         = errors.New("the selected payroll period is locked")
	ErrPriorWarningsRequired       = errors.New("final warning with termination requires at least two prior warnings")
	ErrSuspensionOutOfRange        = errors.New("suspension without pay must be between 3 and 5 days")
	ErrNoDecisionToRespond         = errors.New("no issued decision to respond to")
	ErrObjectionWindowClosed       = errors.New("the objection window has closed")
	ErrObjectionTextRequired       = errors.New("objection text is required")
	ErrNotAwaitingObjection        = errors.New("case is not awaiting objection review")
	ErrLegalHoldActive             = errors.New("case is under legal hold and cannot be finalized")
	ErrPayrollPeriodRequired       = errors.New("a payroll period must be selected to apply a monetary penalty")
	ErrHearingNotAllowed           = errors.New("a hearing can only be scheduled after the official investigation opens")
	ErrMinutesNotAllowed           = errors.New("minutes can only be uploaded during the official investigation")
	ErrInvalidAction               = errors.New("invalid action")
)

// HR initial review actions
const (
	HRActionReject          = "REJECT"
	HRActionInformalNotice  = "INFORMAL_NOTICE"
	HRActionInformalWarning = "INFORMAL_WARNING"
	HRActionApproveOfficial = "APPROVE_OFFICIAL"
)

// Employee response actions
const (
	EmployeeActionAccept = "ACCEPT"
	EmployeeActionReject = "REJECT"
	EmployeeActionObject = "OBJECT"
)

// HR objection review actions
const (
	ObjectionActionConfirm  = "CONFIRM"
	ObjectionActionCancel   = "CANCEL"
	ObjectionActionContinue = "CONTINUE"
)

// Suspension without pay must stay within this range of days
var (
	suspensionMinDays = decimal.NewFromInt(3)
	suspensionMaxDays = decimal.NewFromInt(5)
)

// Notifier dispatches workflow notifications. Calls are best-effort and
// never roll back a state transition.
type Notifier interface {
	NotifyHRCaseSubmitted(companyID, caseID, caseCode, employeeName string)
	NotifyEmployeeHearingScheduled(companyID, employeeID, caseID, caseCode string, hearingAt time.Time, location string)
	NotifyEmployeeDecisionIssued(companyID, employeeID, caseID, caseCode string, objectionWindowDays int)
	NotifyHREmployeeObjected(companyID, caseID, caseCode, employeeName string)
	NotifyCaseFinalized(companyID, employeeID, managerID, caseID, caseCode, decisionType string)
}

// DisciplinaryService drives the disciplinary case lifecycle. All state
// transitions funnel through it; handlers only translate HTTP.
//
// Concurrent non-finalization transitions are last-write-wins, matching a
// single-HR-actor workflow. FinalizeCase is the one locked section.
type DisciplinaryService struct {
	DB       *gorm.DB
	Notifier Notifier
	Storage  StorageProvider

	// Now is the clock; replaceable in tests
	Now func() time.Time
}

// NewDisciplinaryService creates a DisciplinaryService with the real clock
func NewDisciplinaryService(db *gorm.DB, notifier Notifier, storage StorageProvider) *DisciplinaryService {
	return &DisciplinaryService{
		DB:       db,
		Notifier: notifier,
		Storage:  storage,
		Now:      time.Now,
	}
}

// CreateCaseInput carries the incident facts supplied by the manager
type CreateCaseInput struct {
	EmployeeID          string
	Title               string
	IncidentDate        time.Time
	IncidentLocation    string
	InvolvedParties     string
	Description         string
	RetrospectiveReason string
}

// HRReviewInput carries the HR initial review decision
type HRReviewInput struct {
	Action          string
	Reason          string
	HearingDatetime *time.Time
	HearingLocation string
}

// IssueDecisionInput carries an investigation decision
type IssueDecisionInput struct {
	DecisionType         string
	DecisionReason       string
	PenaltyUnit          string
	PenaltyValue         *decimal.Decimal
	PenaltyEffectiveDate *time.Time
	PayrollPeriodID      string
}

// EmployeeResponseInput carries an employee response (informal or decision)
type EmployeeResponseInput struct {
	Action        string
	Comment       string
	ObjectionText string
}

// ObjectionReviewInput carries the HR ruling on an employee objection
type ObjectionReviewInput struct {
	Action string
	Reason string
}

// ScheduleHearingInput carries hearing session details
type ScheduleHearingInput struct {
	HearingDatetime time.Time
	HearingLocation string
}

// UploadMinutesInput carries hearing minutes for one session
type UploadMinutesInput struct {
	SessionNo      int
	MinutesText    string
	MinutesFileURL string
}

// statusFields builds the update map for a status change; the stage is
// always derived from the status so the pair cannot drift apart
func statusFields(status string) map[string]interface{} {
	return map[string]interface{}{
		"status": status,
		"stage":  models.StageFor(status),
	}
}

// findCase loads a case scoped to a company using the given unit of work
func (s *DisciplinaryService) findCase(tx *gorm.DB, caseID, companyID string) (*models.DisciplinaryCase, error) {
	var disciplinaryCase models.DisciplinaryCase
	err := tx.Where("id = ? AND company_id = ?", caseID, companyID).First(&disciplinaryCase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return &disciplinaryCase, nil
}

// reload fetches the current row of a case
func (s *DisciplinaryService) reload(caseID string) (*models.DisciplinaryCase, error) {
	var disciplinaryCase models.DisciplinaryCase
	if err := s.DB.First(&disciplinaryCase, "id = ?", caseID).Error; err != nil {
		return nil, err
	}
	return &disciplinaryCase, nil
}

// CreateCase opens a new case on behalf of a manager. Policy values are
// snapshotted onto the row so later policy edits never affect it.
func (s *DisciplinaryService) CreateCase(managerID, companyID string, in CreateCaseInput) (*models.DisciplinaryCase, error) {
	now := s.Now()
	var created models.DisciplinaryCase
	var employeeName string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var employee models.User
		if err := tx.Where("id = ? AND company_id = ?", in.EmployeeID, companyID).First(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotInCompany
			}
			return err
		}
		employeeName = employee.FullName()

		policy, err := ResolvePolicy(tx, companyID)
		if err != nil {
			return err
		}

		ageInDays := DaysSince(in.IncidentDate, now)
		if ageInDays > policy.IncidentMaxAgeDays {
			if !policy.AllowRetrospectiveIncidents {
				return ErrIncidentTooOld
			}
			if in.RetrospectiveReason == "" {
				return ErrRetrospectiveReasonRequired
			}
		}

		caseCode, err := EnsureUniqueCaseCode(tx, companyID, now)
		if err != nil {
			return err
		}

		status := models.CaseStatusSubmittedToHR
		created = models.DisciplinaryCase{
			CompanyID:           companyID,
			CaseCode:            caseCode,
			EmployeeID:          in.EmployeeID,
			ManagerID:           managerID,
			Status:              status,
			Stage:               models.StageFor(status),
			Title:               SanitizeText(in.Title),
			IncidentDate:        in.IncidentDate,
			IncidentLocation:    SanitizeText(in.IncidentLocation),
			InvolvedParties:     SanitizeText(in.InvolvedParties),
			Description:         SanitizeText(in.Description),
			IsRetrospective:     ageInDays > policy.IncidentMaxAgeDays,
			RetrospectiveReason: SanitizeText(in.RetrospectiveReason),

			IncidentMaxAgeDaysSnapshot:   policy.IncidentMaxAgeDays,
			DecisionDeadlineDaysSnapshot: policy.DecisionDeadlineDays,
			ObjectionWindowDaysSnapshot:  policy.ObjectionWindowDays,
			AllowRetrospectiveSnapshot:   policy.AllowRetrospectiveIncidents,
			DeductionBasePolicySnapshot:  policy.DeductionBasePolicy,
		}

		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}

		return LogCaseEvent(tx, created.ID, managerID, models.EventCaseCreated, "Investigation request submitted to HR")
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyHRCaseSubmitted(companyID, created.ID, created.CaseCode, employeeName)
	}

	return &created, nil
}

// HRInitialReview applies the HR triage decision on a submitted case
func (s *DisciplinaryService) HRInitialReview(caseID, hrID, companyID string, in HRReviewInput) (*models.DisciplinaryCase, error) {
	disciplinaryCase, err := s.findCase(s.DB, caseID, companyID)
	if err != nil {
		return nil, err
	}

	if disciplinaryCase.Status != models.CaseStatusSubmittedToHR &&
		disciplinaryCase.Status != models.CaseStatusEmployeeRejectedInformal {
		return nil, ErrNotInInitialReview
	}

	now := s.Now()
	updates := map[string]interface{}{
		"hr_initial_reason": SanitizeText(in.Reason),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		switch in.Action {
		case HRActionReject:
			for k, v := range statusFields(models.CaseStatusHRRejected) {
				updates[k] = v
			}
			updates["finalized_at"] = now
			if err := LogCaseEvent(tx, caseID, hrID, models.EventCancelled, fmt.Sprintf("Request rejected by HR: %s", in.Reason)); err != nil {
				return err
			}

		case HRActionInformalNotice, HRActionInformalWarning:
			informalAction := models.InformalActionNotice
			if in.Action == HRActionInformalWarning {
				informalAction = models.InformalActionWarning
			}
			for k, v := range statusFields(models.CaseStatusHRInformalSent) {
				updates[k] = v
			}
			updates["hr_initial_action"] = informalAction
			if err := LogCaseEvent(tx, caseID, hrID, models.EventInformalActionSent, fmt.Sprintf("Informal action sent: %s", informalAction)); err != nil {
				return err
			}

		case HRActionApproveOfficial:
			status := models.CaseStatusOfficialInvestigationOpen
			if in.HearingDatetime != nil {
				status = models.CaseStatusHearingScheduled
				updates["hearing_datetime"] = *in.HearingDatetime
				updates["hearing_location"] = in.HearingLocation
			}
			for k, v := range statusFields(status) {
				updates[k] = v
			}
			updates["official_investigation_opened_at"] = now

			if err := LogCaseEvent(tx, caseID, hrID, models.EventOfficialInvestigationOpened, "Official investigation opened"); err != nil {
				return err
			}
			if in.HearingDatetime != nil {
				if err := LogCaseEvent(tx, caseID, hrID, models.EventHearingScheduled, fmt.Sprintf("Hearing scheduled for %s", in.HearingDatetime.Format(time.RFC3339))); err != nil {
					return err
				}
			}

		default:
			return ErrInvalidAction
		}

		return tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	if in.Action == HRActionApproveOfficial && in.HearingDatetime != nil && s.Notifier != nil {
		s.Notifier.NotifyEmployeeHearingScheduled(companyID, disciplinaryCase.EmployeeID, caseID, disciplinaryCase.CaseCode, *in.HearingDatetime, in.HearingLocation)
	}

	return s.reload(caseID)
}

// EmployeeInformalResponse records the employee's answer to an informal
// action. Acceptance finalizes the case and writes the permanent record in
// one transaction.
func (s *DisciplinaryService) EmployeeInformalResponse(caseID, employeeID, companyID string, in EmployeeResponseInput) (*models.DisciplinaryCase, error) {
	disciplinaryCase, err := s.findCase(s.DB, caseID, companyID)
	if err != nil {
		return nil, err
	}

	if disciplinaryCase.EmployeeID != employeeID {
		return nil, ErrNotCaseEmployee
	}
	if disciplinaryCase.Status != models.CaseStatusHRInformalSent {
		return nil, ErrNoInformalAction
	}

	now := s.Now()

	if in.Action == EmployeeActionAccept {
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			updates := statusFields(models.CaseStatusFinalizedApproved)
			updates["employee_ack_status"] = models.AckAccepted
			updates["employee_ack_at"] = now
			updates["finalized_at"] = now
			if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(updates).Error; err != nil {
				return err
			}

			decisionType := models.DecisionNotice
			if disciplinaryCase.HRInitialAction == models.InformalActionWarning {
				decisionType = models.DecisionWarning
			}
			record := models.EmployeeDisciplinaryRecord{
				EmployeeID:    employeeID,
				CaseID:        caseID,
				DecisionType:  decisionType,
				Reason:        disciplinaryCase.HRInitialReason,
				EffectiveDate: now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create disciplinary record: %w", err)
			}

			return LogCaseEvent(tx, caseID, employeeID, models.EventEmployeeAcknowledged, "Employee accepted the informal action")
		})
		if err != nil {
			return nil, err
		}
	} else {
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			updates := statusFields(models.CaseStatusEmployeeRejectedInformal)
			updates["employee_ack_status"] = models.AckRejected
			updates["employee_ack_at"] = now
			if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(updates).Error; err != nil {
				return err
			}
			return LogCaseEvent(tx, caseID, employeeID, models.EventEmployeeInformalResponse, fmt.Sprintf("Employee rejected the informal action: %s", SanitizeText(in.Comment)))
		})
		if err != nil {
			return nil, err
		}
	}

	return s.reload(caseID)
}

// IssueDecision records the investigation decision, enforcing the decision
// deadline, payroll-period lock state, the prior-warnings escalation guard
// and the suspension duration bound
func (s *DisciplinaryService) IssueDecision(caseID, hrID, companyID string, in IssueDecisionInput) (*models.DisciplinaryCase, error) {
	now := s.Now()
	var updated *models.DisciplinaryCase
	var employeeID string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		disciplinaryCase, err := s.findCase(tx, caseID, companyID)
		if err != nil {
			return err
		}
		employeeID = disciplinaryCase.EmployeeID

		if !disciplinaryCase.InOfficialInvestigation() {
			return ErrNotInOfficialInvestigation
		}

		if openedAt := disciplinaryCase.OfficialInvestigationOpenedAt; openedAt != nil {
			deadline := ComputeDeadline(*openedAt, disciplinaryCase.DecisionDeadlineDaysSnapshot, now)
			if deadline.IsExpired {
				return ErrDecisionDeadlinePassed
			}
		}

		if in.PayrollPeriodID != "" {
			var period models.PayrollPeriod
			if err := tx.Where("id = ? AND company_id = ?", in.PayrollPeriodID, companyID).First(&period).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPayrollPeriodNotFound
				}
				return err
			}
			if period.IsLocked() {
				return ErrPayrollPeriodLocked
			}
		}

		if in.DecisionType == models.DecisionFinalWarningTermination {
			var priorWarnings int64
			err := tx.Model(&models.EmployeeDisciplinaryRecord{}).
				Where("employee_id = ? AND decision_type IN ?", disciplinaryCase.EmployeeID,
					[]string{models.DecisionFirstWarning, models.DecisionSecondWarning, models.DecisionWarning}).
				Count(&priorWarnings).Error
			if err != nil {
				return err
			}
			if priorWarnings < 2 {
				return ErrPriorWarningsRequired
			}
		}

		if in.DecisionType == models.DecisionSuspensionWithoutPay {
			if in.PenaltyValue == nil ||
				in.PenaltyValue.LessThan(suspensionMinDays) ||
				in.PenaltyValue.GreaterThan(suspensionMaxDays) {
				return ErrSuspensionOutOfRange
			}
		}

		updates := statusFields(models.CaseStatusDecisionIssued)
		updates["decision_type"] = in.DecisionType
		updates["decision_reason"] = SanitizeText(in.DecisionReason)
		updates["decision_created_at"] = now
		updates["penalty_unit"] = in.PenaltyUnit
		updates["penalty_value"] = in.PenaltyValue
		updates["penalty_effective_date"] = in.PenaltyEffectiveDate
		if in.PayrollPeriodID != "" {
			updates["payroll_period_id"] = in.PayrollPeriodID
		}
		if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(updates).Error; err != nil {
			return err
		}

		penaltyMsg := ""
		if in.PenaltyValue != nil {
			penaltyMsg = fmt.Sprintf(" (penalty: %s %s)", in.PenaltyValue.String(), in.PenaltyUnit)
		}
		return LogCaseEvent(tx, caseID, hrID, models.EventDecisionIssued, fmt.Sprintf("Decision issued: %s%s", in.DecisionType, penaltyMsg))
	})
	if err != nil {
		return nil, err
	}

	updated, err = s.reload(caseID)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyEmployeeDecisionIssued(companyID, employeeID, caseID, updated.CaseCode, updated.ObjectionWindowDaysSnapshot)
	}

	return updated, nil
}

// EmployeeDecisionResponse records the employee's acceptance of or objection
// to an issued decision, enforcing the snapshotted objection window
func (s *DisciplinaryService) EmployeeDecisionResponse(caseID, employeeID, companyID string, in EmployeeResponseInput) (*models.DisciplinaryCase, error) {
	disciplinaryCase, err := s.findCase(s.DB, caseID, companyID)
	if err != nil {
		return nil, err
	}

	if disciplinaryCase.EmployeeID != employeeID {
		return nil, ErrNotCaseEmployee
	}
	if disciplinaryCase.Status != models.CaseStatusDecisionIssued {
		return nil, ErrNoDecisionToRespond
	}

	now := s.Now()
	if decisionAt := disciplinaryCase.DecisionCreatedAt; decisionAt != nil {
		window := ComputeDeadline(*decisionAt, disciplinaryCase.ObjectionWindowDaysSnapshot, now)
		if window.IsExpired {
			return nil, ErrObjectionWindowClosed
		}
	}

	if in.Action == EmployeeActionAccept {
		return s.FinalizeCase(caseID, employeeID, companyID)
	}

	objectionText := SanitizeText(in.ObjectionText)
	if objectionText == "" {
		return nil, ErrObjectionTextRequired
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := statusFields(models.CaseStatusEmployeeObjected)
		updates["employee_ack_status"] = models.AckRejected
		updates["employee_ack_at"] = now
		updates["objection_text"] = objectionText
		updates["objection_submitted_at"] = now
		if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(updates).Error; err != nil {
			return err
		}

		summary := objectionText
		if len(summary) > 100 {
			summary = summary[:100] + "..."
		}
		return LogCaseEvent(tx, caseID, employeeID, models.EventEmployeeObjected, fmt.Sprintf("Employee objected: %s", summary))
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		var employee models.User
		employeeName := ""
		if err := s.DB.First(&employee, "id = ?", employeeID).Error; err == nil {
			employeeName = employee.FullName()
		}
		s.Notifier.NotifyHREmployeeObjected(companyID, caseID, disciplinaryCase.CaseCode, employeeName)
	}

	return s.reload(caseID)
}

// ObjectionReview applies the HR ruling on an employee objection
func (s *DisciplinaryService) ObjectionReview(caseID, hrID, companyID string, in ObjectionReviewInput) (*models.DisciplinaryCase, error) {
	disciplinaryCase, err := s.findCase(s.DB, caseID, companyID)
	if err != nil {
		return nil, err
	}

	if disciplinaryCase.Status != models.CaseStatusEmployeeObjected {
		return nil, ErrNotAwaitingObjection
	}

	now := s.Now()
	reason := SanitizeText(in.Reason)
	objectionUpdates := map[string]interface{}{
		"hr_after_objection_action": in.Action,
		"hr_after_objection_reason": reason,
	}

	switch in.Action {
	case ObjectionActionConfirm:
		if err := s.DB.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(objectionUpdates).Error; err != nil {
			return nil, err
		}
		return s.FinalizeCase(caseID, hrID, companyID)

	case ObjectionActionCancel:
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			for k, v := range statusFields(models.CaseStatusFinalizedCancelled) {
				objectionUpdates[k] = v
			}
			objectionUpdates["finalized_at"] = now
			if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(objectionUpdates).Error; err != nil {
				return err
			}
			return LogCaseEvent(tx, caseID, hrID, models.EventCancelled, fmt.Sprintf("Objection accepted, penalty cancelled: %s", reason))
		})

	case ObjectionActionContinue:
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			for k, v := range statusFields(models.CaseStatusInvestigationInProgress) {
				objectionUpdates[k] = v
			}
			if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(objectionUpdates).Error; err != nil {
				return err
			}
			return LogCaseEvent(tx, caseID, hrID, models.EventObjectionReviewed, fmt.Sprintf("Objection dismissed, investigation continues: %s", reason))
		})

	default:
		return nil, ErrInvalidAction
	}
	if err != nil {
		return nil, err
	}

	return s.reload(caseID)
}

// FinalizeCase is the terminal transition. It locks the case row for the
// duration of the transaction, returns the existing row unchanged when the
// case is already finalized, and refuses while a legal hold is active.
// The permanent record and any payroll adjustment are written in the same
// transaction; any failure rolls the whole finalization back.
func (s *DisciplinaryService) FinalizeCase(caseID, actorID, companyID string) (*models.DisciplinaryCase, error) {
	now := s.Now()
	var finalized *models.DisciplinaryCase
	alreadyFinalized := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var disciplinaryCase models.DisciplinaryCase
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND company_id = ?", caseID, companyID).
			First(&disciplinaryCase).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCaseNotFound
			}
			return err
		}

		if disciplinaryCase.IsFinalized() {
			// Idempotent no-op: safe to call from every trigger point
			alreadyFinalized = true
			finalized = &disciplinaryCase
			return nil
		}

		if disciplinaryCase.LegalHold {
			return ErrLegalHoldActive
		}

		if disciplinaryCase.PayrollPeriodID != nil {
			var period models.PayrollPeriod
			if err := tx.First(&period, "id = ?", *disciplinaryCase.PayrollPeriodID).Error; err == nil && period.IsLocked() {
				return ErrPayrollPeriodLocked
			}
		}

		updates := statusFields(models.CaseStatusFinalizedApproved)
		updates["finalized_at"] = now
		if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(updates).Error; err != nil {
			return err
		}

		record := models.EmployeeDisciplinaryRecord{
			EmployeeID:    disciplinaryCase.EmployeeID,
			CaseID:        disciplinaryCase.ID,
			DecisionType:  disciplinaryCase.DecisionType,
			Reason:        disciplinaryCase.DecisionReason,
			EffectiveDate: now,
		}
		if err := record.SetPenaltyMetadata(models.PenaltyMetadata{
			Unit:  disciplinaryCase.PenaltyUnit,
			Value: disciplinaryCase.PenaltyValue,
		}); err != nil {
			return err
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create disciplinary record: %w", err)
		}

		if disciplinaryCase.HasMonetaryPenalty() {
			if disciplinaryCase.PayrollPeriodID == nil {
				return ErrPayrollPeriodRequired
			}

			adjustmentType := models.AdjustmentTypeDeduction
			if disciplinaryCase.DecisionType == models.DecisionSuspensionWithoutPay {
				adjustmentType = models.AdjustmentTypeSuspensionUnpay
			}
			unit := disciplinaryCase.PenaltyUnit
			if unit == "" {
				unit = models.PenaltyUnitDays
			}
			value := decimal.Zero
			if disciplinaryCase.PenaltyValue != nil {
				value = *disciplinaryCase.PenaltyValue
			}

			adjustment := models.PayrollAdjustment{
				CompanyID:       companyID,
				EmployeeID:      disciplinaryCase.EmployeeID,
				CaseID:          disciplinaryCase.ID,
				PayrollPeriodID: *disciplinaryCase.PayrollPeriodID,
				AdjustmentType:  adjustmentType,
				Unit:            unit,
				Value:           value,
				Status:          models.AdjustmentPending,
				Reason:          fmt.Sprintf("Disciplinary penalty - %s", disciplinaryCase.CaseCode),
				CreatedByID:     actorID,
			}
			if err := tx.Create(&adjustment).Error; err != nil {
				return fmt.Errorf("failed to create payroll adjustment: %w", err)
			}
		}

		return LogCaseEvent(tx, caseID, actorID, models.EventFinalized, "Case finalized")
	})
	if err != nil {
		return nil, err
	}

	if alreadyFinalized {
		return finalized, nil
	}

	finalized, err = s.reload(caseID)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyCaseFinalized(companyID, finalized.EmployeeID, finalized.ManagerID, caseID, finalized.CaseCode, finalized.DecisionType)
	}

	return finalized, nil
}

// ToggleLegalHold flips the legal hold flag. It is independent of the
// workflow position; the flag is only consulted at finalization time.
func (s *DisciplinaryService) ToggleLegalHold(caseID, hrID, companyID string, hold bool) (*models.DisciplinaryCase, error) {
	if _, err := s.findCase(s.DB, caseID, companyID); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Update("legal_hold", hold).Error; err != nil {
			return err
		}
		message := "Legal hold released"
		if hold {
			message = "Legal hold activated"
		}
		return LogCaseEvent(tx, caseID, hrID, models.EventLegalHoldToggled, message)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(caseID)
}

// ScheduleHearing sets or reschedules the hearing session
func (s *DisciplinaryService) ScheduleHearing(caseID, hrID, companyID string, in ScheduleHearingInput) (*models.DisciplinaryCase, error) {
	disciplinaryCase, err := s.findCase(s.DB, caseID, companyID)
	if err != nil {
		return nil, err
	}

	if disciplinaryCase.Status != models.CaseStatusOfficialInvestigationOpen &&
		disciplinaryCase.Status != models.CaseStatusInvestigationInProgress {
		return nil, ErrHearingNotAllowed
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := statusFields(models.CaseStatusHearingScheduled)
		updates["hearing_datetime"] = in.HearingDatetime
		updates["hearing_location"] = SanitizeText(in.HearingLocation)
		if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).Updates(updates).Error; err != nil {
			return err
		}
		return LogCaseEvent(tx, caseID, hrID, models.EventHearingScheduled,
			fmt.Sprintf("Hearing scheduled: %s - %s", in.HearingDatetime.Format(time.RFC3339), in.HearingLocation))
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyEmployeeHearingScheduled(companyID, disciplinaryCase.EmployeeID, caseID, disciplinaryCase.CaseCode, in.HearingDatetime, in.HearingLocation)
	}

	return s.reload(caseID)
}

// UploadMinutes records the minutes of one hearing session and moves the
// case to in-progress
func (s *DisciplinaryService) UploadMinutes(caseID, hrID, companyID string, in UploadMinutesInput) (*models.CaseMinute, error) {
	disciplinaryCase, err := s.findCase(s.DB, caseID, companyID)
	if err != nil {
		return nil, err
	}

	if !disciplinaryCase.InOfficialInvestigation() {
		return nil, ErrMinutesNotAllowed
	}

	minute := models.CaseMinute{
		CaseID:         caseID,
		SessionNo:      in.SessionNo,
		MinutesText:    SanitizeText(in.MinutesText),
		MinutesFileURL: in.MinutesFileURL,
		CreatedByHRID:  hrID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&minute).Error; err != nil {
			return fmt.Errorf("failed to create minutes: %w", err)
		}
		if err := tx.Model(&models.DisciplinaryCase{}).Where("id = ?", caseID).
			Updates(statusFields(models.CaseStatusInvestigationInProgress)).Error; err != nil {
			return err
		}
		return LogCaseEvent(tx, caseID, hrID, models.EventMinutesUploaded, fmt.Sprintf("Minutes uploaded for session %d", in.SessionNo))
	})
	if err != nil {
		return nil, err
	}

	return &minute, nil
}

// UploadAttachment persists a reference to an already-stored evidence file
func (s *DisciplinaryService) UploadAttachment(caseID, userID, companyID string, fileURL, fileName, fileType string) (*models.CaseAttachment, error) {
	if _, err := s.findCase(s.DB, caseID, companyID); err != nil {
		return nil, err
	}

	attachment := models.CaseAttachment{
		CaseID:         caseID,
		UploaderUserID: userID,
		FileURL:        fileURL,
		FileName:       fileName,
		FileType:       fileType,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attachment).Error; err != nil {
			return fmt.Errorf("failed to create attachment: %w", err)
		}
		return LogCaseEvent(tx, caseID, userID, models.EventAttachmentUploaded, fmt.Sprintf("Attachment uploaded: %s", fileName))
	})
	if err != nil {
		return nil, err
	}

	return &attachment, nil
}

// UploadFiles stores multipart evidence files through the storage provider
// and records one attachment per file
func (s *DisciplinaryService) UploadFiles(ctx context.Context, caseID, userID, companyID string, files []*multipart.FileHeader) ([]models.CaseAttachment, error) {
	if _, err := s.findCase(s.DB, caseID, companyID); err != nil {
		return nil, err
	}

	saved := make([]models.CaseAttachment, 0, len(files))
	for _, file := range files {
		key := GenerateCaseAttachmentKey(companyID, caseID, file.Filename)
		result, err := s.Storage.Upload(ctx, file, key)
		if err != nil {
			return saved, fmt.Errorf("failed to store file %s: %w", file.Filename, err)
		}

		attachment, err := s.UploadAttachment(caseID, userID, companyID, result.URL, result.FileOriginalName, result.MimeType)
		if err != nil {
			return saved, err
		}
		attachment.FileSize = result.FileSize
		saved = append(saved, *attachment)
	}

	return saved, nil
}

// GetCasesForRole lists cases scoped by the caller's relationship: managers
// see cases they opened, employees their own, HR the whole company
func (s *DisciplinaryService) GetCasesForRole(userID, companyID, role string) ([]models.DisciplinaryCase, error) {
	query := s.DB.Where("company_id = ?", companyID)

	switch role {
	case "manager":
		query = query.Where("manager_id = ?", userID)
	case "employee":
		query = query.Where("employee_id = ?", userID)
	}
	// HR sees all cases in the company

	var cases []models.DisciplinaryCase
	err := query.
		Preload("Employee").
		Preload("Manager").
		Order("created_at DESC").
		Find(&cases).Error
	return cases, err
}

// CaseDeadlines are the computed deadline views on a case detail
type CaseDeadlines struct {
	Decision  *Deadline `json:"decision"`
	Objection *Deadline `json:"objection"`
}

// CaseDetail is the full case view returned to callers
type CaseDetail struct {
	models.DisciplinaryCase
	Deadlines CaseDeadlines `json:"deadlines"`
}

// GetCaseDetail returns a case with its children and computed deadlines.
// Only the subject employee, the requesting manager, or HR may view it.
func (s *DisciplinaryService) GetCaseDetail(caseID, companyID, userID, userRole string) (*CaseDetail, error) {
	var disciplinaryCase models.DisciplinaryCase
	err := s.DB.Where("id = ? AND company_id = ?", caseID, companyID).
		Preload("Employee").
		Preload("Manager").
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Minutes", func(db *gorm.DB) *gorm.DB { return db.Order("session_no ASC") }).
		Preload("Attachments").
		Preload("Records").
		Preload("Adjustments").
		Preload("PayrollPeriod").
		First(&disciplinaryCase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}

	if userID != "" && userRole != "" {
		isEmployee := disciplinaryCase.EmployeeID == userID
		isManager := disciplinaryCase.ManagerID == userID
		isHR := userRole == models.RoleHR || userRole == models.RoleAdmin
		if !isEmployee && !isManager && !isHR {
			return nil, ErrNotCaseEmployee
		}
	}

	now := s.Now()
	detail := &CaseDetail{DisciplinaryCase: disciplinaryCase}
	if openedAt := disciplinaryCase.OfficialInvestigationOpenedAt; openedAt != nil {
		d := ComputeDeadline(*openedAt, disciplinaryCase.DecisionDeadlineDaysSnapshot, now)
		detail.Deadlines.Decision = &d
	}
	if decisionAt := disciplinaryCase.DecisionCreatedAt; decisionAt != nil {
		d := ComputeDeadline(*decisionAt, disciplinaryCase.ObjectionWindowDaysSnapshot, now)
		detail.Deadlines.Objection = &d
	}

	return detail, nil
}
