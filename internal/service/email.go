package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"closet-backend/internal/config"
	"closet-backend/internal/logger"
)

type emailService struct {
	cfg config.EmailConfig
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	return &emailService{cfg: cfg}
}

func (s *emailService) SendStaffReport(ctx context.Context, subject, body string) error {
	if s.cfg.SendGridAPIKey == "" || s.cfg.StaffEmail == "" {
		logger.Info("email disabled, skipping staff report", "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	to := mail.NewEmail("", s.cfg.StaffEmail)
	message := mail.NewSingleEmailPlainText(from, subject, to, body)

	client := sendgrid.NewSendClient(s.cfg.SendGridAPIKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send staff report: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send staff report: sendgrid returned status %d", resp.StatusCode)
	}

	logger.Info("staff report sent", "subject", subject, "to", s.cfg.StaffEmail)
	return nil
}
