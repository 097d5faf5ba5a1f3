// Package mailer sends outbound email. Handlers and workers depend on the
// Mailer interface; the concrete sender is chosen at startup from config.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Email is one outbound message. Both bodies are sent when present;
// clients pick whichever they can render.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// Console logs messages instead of sending them. Used in development and
// whenever no SendGrid key is configured.
type Console struct {
	Log *zap.Logger
}

func (c *Console) Send(_ context.Context, e Email) error {
	c.Log.Info("email (console mailer, not sent)",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.String("text_body", e.TextBody))
	return nil
}

// SendGrid delivers through the SendGrid v3 API.
type SendGrid struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendGrid(apiKey, fromName, fromEmail string) (*SendGrid, error) {
	if apiKey == "" {
		return nil, errors.New("mailer: sendgrid api key is empty")
	}
	if fromEmail == "" {
		return nil, errors.New("mailer: from address is empty")
	}
	return &SendGrid{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

func (s *SendGrid) Send(ctx context.Context, e Email) error {
	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	to := sgmail.NewEmail("", e.To)
	msg := sgmail.NewSingleEmail(from, e.Subject, to, e.TextBody, e.HTMLBody)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("mailer: send to %s: %w", e.To, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mailer: send to %s: sendgrid status %d", e.To, resp.StatusCode)
	}
	return nil
}

// New picks the sender: SendGrid when a key is configured, console
// otherwise.
func New(apiKey, fromName, fromEmail string, log *zap.Logger) (Mailer, error) {
	if apiKey == "" {
		log.Info("no sendgrid key configured; using console mailer")
		return &Console{Log: log}, nil
	}
	return NewSendGrid(apiKey, fromName, fromEmail)
}
