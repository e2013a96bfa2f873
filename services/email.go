package services

import (
	"fmt"
	"log"

	"hr_flow_app_go/config"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional email through Resend. In test mode the
// message is logged to the console instead of sent.
type EmailService struct {
	client   *resend.Client
	from     string
	testMode bool
}

// NewEmailService builds an EmailService from configuration. A missing API
// key forces test mode so development never attempts real delivery.
func NewEmailService(cfg *config.Config) *EmailService {
	testMode := cfg.EmailTestMode || cfg.ResendAPIKey == ""

	var client *resend.Client
	if !testMode {
		client = resend.NewClient(cfg.ResendAPIKey)
	}

	return &EmailService{
		client:   client,
		from:     fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		testMode: testMode,
	}
}

// Send delivers a plain-text email to a single recipient
func (s *EmailService) Send(to, subject, body string) error {
	if s.testMode {
		log.Printf("[EMAIL TEST MODE] To: %s | Subject: %s | Body: %s", to, subject, body)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendHTML delivers an HTML email with a plain-text alternative
func (s *EmailService) SendHTML(to, subject, htmlBody, textBody string) error {
	if s.testMode {
		log.Printf("[EMAIL TEST MODE] To: %s | Subject: %s", to, subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
