package services

import (
	"fmt"
	"log"
	"time"

	"hr_flow_app_go/models"

	"gorm.io/gorm"
)

// NotificationService persists in-app notifications and sends best-effort
// emails. Dispatch happens after the caller's transaction has committed and
// runs in a goroutine; failures are logged and never affect workflow state.
type NotificationService struct {
	DB     *gorm.DB
	Emails *EmailService

	// sync forces synchronous dispatch in tests
	sync bool
}

func NewNotificationService(db *gorm.DB, emails *EmailService) *NotificationService {
	return &NotificationService{DB: db, Emails: emails}
}

// dispatch persists a notification row and optionally emails the target user
func (s *NotificationService) dispatch(n models.Notification, emailUserID string) {
	run := func() {
		if err := s.DB.Create(&n).Error; err != nil {
			log.Printf("[NOTIFY] Failed to create notification: %v", err)
			return
		}

		if s.Emails == nil || emailUserID == "" {
			return
		}
		var user models.User
		if err := s.DB.First(&user, "id = ?", emailUserID).Error; err != nil {
			log.Printf("[NOTIFY] Failed to load notification recipient: %v", err)
			return
		}
		if err := s.Emails.Send(user.Email, n.Title, n.Message); err != nil {
			log.Printf("[NOTIFY] Failed to send notification email: %v", err)
		}
	}

	if s.sync {
		run()
		return
	}
	go run()
}

// NotifyHRCaseSubmitted alerts all HR users of the company about a new case
func (s *NotificationService) NotifyHRCaseSubmitted(companyID, caseID, caseCode, employeeName string) {
	s.dispatch(models.Notification{
		CompanyID: companyID,
		CaseID:    &caseID,
		Type:      models.NotificationTypeCaseSubmitted,
		Title:     fmt.Sprintf("New disciplinary case %s", caseCode),
		Message:   fmt.Sprintf("An investigation request for %s was submitted and awaits HR review.", employeeName),
		LinkURL:   "/disciplinary/cases/" + caseID,
	}, "")
}

// NotifyEmployeeHearingScheduled informs the employee of a hearing session
func (s *NotificationService) NotifyEmployeeHearingScheduled(companyID, employeeID, caseID, caseCode string, hearingAt time.Time, location string) {
	s.dispatch(models.Notification{
		CompanyID: companyID,
		UserID:    &employeeID,
		CaseID:    &caseID,
		Type:      models.NotificationTypeHearingScheduled,
		Title:     fmt.Sprintf("Hearing scheduled for case %s", caseCode),
		Message:   fmt.Sprintf("A hearing has been scheduled on %s at %s.", hearingAt.Format("2006-01-02 15:04"), location),
		LinkURL:   "/disciplinary/cases/" + caseID,
	}, employeeID)
}

// NotifyEmployeeDecisionIssued informs the employee of the decision and the
// objection window
func (s *NotificationService) NotifyEmployeeDecisionIssued(companyID, employeeID, caseID, caseCode string, objectionWindowDays int) {
	s.dispatch(models.Notification{
		CompanyID: companyID,
		UserID:    &employeeID,
		CaseID:    &caseID,
		Type:      models.NotificationTypeDecisionIssued,
		Title:     fmt.Sprintf("Decision issued for case %s", caseCode),
		Message:   fmt.Sprintf("A decision has been issued. You may accept it or object within %d days.", objectionWindowDays),
		LinkURL:   "/disciplinary/cases/" + caseID,
	}, employeeID)
}

// NotifyHREmployeeObjected alerts HR that the employee objected
func (s *NotificationService) NotifyHREmployeeObjected(companyID, caseID, caseCode, employeeName string) {
	s.dispatch(models.Notification{
		CompanyID: companyID,
		CaseID:    &caseID,
		Type:      models.NotificationTypeEmployeeObjected,
		Title:     fmt.Sprintf("Objection submitted on case %s", caseCode),
		Message:   fmt.Sprintf("%s objected to the issued decision. The objection awaits HR review.", employeeName),
		LinkURL:   "/disciplinary/cases/" + caseID,
	}, "")
}

// NotifyCaseFinalized informs the employee and the requesting manager
func (s *NotificationService) NotifyCaseFinalized(companyID, employeeID, managerID, caseID, caseCode, decisionType string) {
	message := fmt.Sprintf("Case %s has been finalized.", caseCode)
	if decisionType != "" {
		message = fmt.Sprintf("Case %s has been finalized with decision %s.", caseCode, decisionType)
	}

	for _, userID := range []string{employeeID, managerID} {
		uid := userID
		s.dispatch(models.Notification{
			CompanyID: companyID,
			UserID:    &uid,
			CaseID:    &caseID,
			Type:      models.NotificationTypeCaseFinalized,
			Title:     fmt.Sprintf("Case %s finalized", caseCode),
			Message:   message,
			LinkURL:   "/disciplinary/cases/" + caseID,
		}, uid)
	}
}

// GetUnreadNotifications returns the latest unread notifications for a user
func (s *NotificationService) GetUnreadNotifications(companyID, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("company_id = ? AND (user_id IS NULL OR user_id = ?) AND read_at IS NULL", companyID, userID).
		Order("created_at DESC").
		Limit(5).
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead marks one notification as read for a user
func (s *NotificationService) MarkAsRead(notificationID, userID, companyID string) error {
	now := time.Now()
	// Ensure the notification belongs to the company and (optionally) the user
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND company_id = ? AND (user_id IS NULL OR user_id = ?)", notificationID, companyID, userID).
		Update("read_at", now).Error
}

// MarkAllAsRead marks every unread notification as read for a user
func (s *NotificationService) MarkAllAsRead(companyID, userID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("company_id = ? AND (user_id IS NULL OR user_id = ?) AND read_at IS NULL", companyID, userID).
		Update("read_at", now).Error
}

// GetNotificationCount returns the unread count for a user
func (s *NotificationService) GetNotificationCount(companyID, userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("company_id = ? AND (user_id IS NULL OR user_id = ?) AND read_at IS NULL", companyID, userID).
		Count(&count).Error
	return count, err
}
