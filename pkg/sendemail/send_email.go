package sendemail

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"itams/pkg/config"
)

var ErrNoRecipients = errors.New("no recipients")

// EmailService delivers one message to a list of recipients.
type EmailService interface {
	SendEmail(ctx context.Context, subject string, to []string, plainTextContent, htmlContent string) error
}

// sendFunc posts a message and returns the provider's HTTP status.
type sendFunc func(ctx context.Context, email *mail.SGMailV3) (int, error)

type emailService struct {
	send        sendFunc
	senderEmail string
	senderName  string
}

func NewEmailService(cfg config.SendgridConfig) EmailService {
	client := sendgrid.NewSendClient(cfg.APIKey)
	return newEmailService(cfg, func(ctx context.Context, email *mail.SGMailV3) (int, error) {
		resp, err := client.SendWithContext(ctx, email)
		if err != nil {
			return 0, err
		}
		return resp.StatusCode, nil
	})
}

func newEmailService(cfg config.SendgridConfig, send sendFunc) *emailService {
	return &emailService{
		send:        send,
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
	}
}

// BuildMessage assembles a single-personalization message addressed to every
// recipient in to.
func BuildMessage(fromName, fromEmail, subject string, to []string, plainTextContent, htmlContent string) (*mail.SGMailV3, error) {
	if len(to) == 0 {
		return nil, ErrNoRecipients
	}

	p := mail.NewPersonalization()
	for _, addr := range to {
		p.AddTos(mail.NewEmail("", addr))
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(fromName, fromEmail))
	m.Subject = subject
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/plain", plainTextContent))
	if htmlContent != "" {
		m.AddContent(mail.NewContent("text/html", htmlContent))
	}
	return m, nil
}

func (e *emailService) SendEmail(ctx context.Context, subject string, to []string, plainTextContent, htmlContent string) error {
	message, err := BuildMessage(e.senderName, e.senderEmail, subject, to, plainTextContent, htmlContent)
	if err != nil {
		return err
	}
	status, err := e.send(ctx, message)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("failed to send email: status %d", status)
	}
	return nil
}
