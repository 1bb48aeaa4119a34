package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/config"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrRejected = errors.New("mail rejected")

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type SendGrid struct {
	client *sendgrid.Client
	from   *mail.Email
}

// New returns a SendGrid backed mailer, or a mailer that only logs
// messages when no API key is configured.
func New(cfg config.Mail, lg logger.Logger) Mailer {
	if cfg.APIKey == "" {
		return LogMailer{lg: lg}
	}

	return SendGrid{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

func (s SendGrid) Send(ctx context.Context, m Message) error {
	msg := mail.NewSingleEmail(s.from, m.Subject, mail.NewEmail(m.ToName, m.To), m.Text, m.HTML)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d body %s", ErrRejected, resp.StatusCode, resp.Body)
	}

	return nil
}

type LogMailer struct {
	lg logger.Logger
}

func (l LogMailer) Send(_ context.Context, m Message) error {
	l.lg.Infof("mail to %s subject %q: %s", m.To, m.Subject, m.Text)

	return nil
}
