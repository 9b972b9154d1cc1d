package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	texttemplate "text/template"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/config"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*
var templateFS embed.FS

const (
	maxRetries  = 3
	sendTimeout = 15 * time.Second
)

// EmailService defines the interface for sending emails
type EmailService interface {
	SendPasswordResetOTP(ctx context.Context, to, employeeName, code string, validFor time.Duration) error
}

type emailServiceImpl struct {
	cfg           config.SMTPConfig
	client        *mail.Client
	htmlTemplates *htmltemplate.Template
	textTemplates *texttemplate.Template
	backoff       func(attempt int) time.Duration
}

// NewEmailService creates a new email service instance. With no SMTP host
// configured, messages are logged and dropped.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	htmlTmpl, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html email templates: %w", err)
	}
	textTmpl, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text email templates: %w", err)
	}

	s := &emailServiceImpl{
		cfg:           cfg,
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
		backoff: func(attempt int) time.Duration {
			// 1s, 2s, 4s
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}

	if cfg.Host == "" {
		return s, nil
	}

	s.client, err = mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(sendTimeout),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return s, nil
}

type passwordResetOTPData struct {
	EmployeeName string
	Code         string
	ValidMinutes int
}

// SendPasswordResetOTP emails a password reset passcode
func (s *emailServiceImpl) SendPasswordResetOTP(ctx context.Context, to, employeeName, code string, validFor time.Duration) error {
	data := passwordResetOTPData{
		EmployeeName: employeeName,
		Code:         code,
		ValidMinutes: int(validFor.Minutes()),
	}

	htmlBody, textBody, err := s.render("password_reset_otp", data)
	if err != nil {
		return err
	}

	return s.send(ctx, to, "Password Reset OTP - DD Healthcare HRMS", htmlBody, textBody)
}

func (s *emailServiceImpl) render(name string, data any) (string, string, error) {
	var html, text bytes.Buffer
	if err := s.htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}
	if err := s.textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}
	return html.String(), text.String(), nil
}

func (s *emailServiceImpl) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	// Skip sending if SMTP is not configured
	if s.client == nil {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.FromAddress); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.client.DialAndSendWithContext(ctx, msg)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled: %w", ctx.Err())
			case <-time.After(s.backoff(attempt)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
