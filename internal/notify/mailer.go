// Package notify sends lead notifications to the site administrator.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/palclasses/site-api/internal/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a Message.  Implementations must honour ctx.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer builds the transport selected by cfg.Transport.
func NewMailer(cfg config.MailConfig, logger *slog.Logger) (Mailer, error) {
	switch cfg.Transport {
	case config.MailTransportSMTP:
		return NewSMTPMailer(cfg)
	case config.MailTransportSendgrid:
		return NewSendgridMailer(cfg.SendgridAPIKey, cfg.From), nil
	case config.MailTransportLog, "":
		return NewLogMailer(logger), nil
	}
	return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
}

// LogMailer writes messages to the log instead of sending them.  It is the
// default in development.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{log: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("mail (log transport)", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
