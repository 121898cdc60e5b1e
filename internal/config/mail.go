package config

import (
	"fmt"
	"strings"
)

// Mail transports understood by notify.NewMailer.
const (
	MailTransportSMTP     = "smtp"
	MailTransportSendgrid = "sendgrid"
	MailTransportLog      = "log"
)

// MailConfig holds the outbound notification settings.  AdminAddress is
// the fixed recipient of every lead notification.
type MailConfig struct {
	Transport      string
	AdminAddress   string
	From           string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	SendgridAPIKey string
}

// LoadMailConfig reads the mail settings.  EMAIL_USER/EMAIL_PASS are
// accepted as aliases for the SMTP credentials.
func LoadMailConfig() MailConfig {
	user := firstNonEmpty(envStr("SMTP_USER", ""), envStr("EMAIL_USER", ""))
	return MailConfig{
		Transport:      strings.ToLower(envStr("MAIL_TRANSPORT", MailTransportLog)),
		AdminAddress:   envStr("ADMIN_EMAIL", ""),
		From:           firstNonEmpty(envStr("MAIL_FROM", ""), user),
		SMTPHost:       envStr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       envInt("SMTP_PORT", 465),
		SMTPUser:       user,
		SMTPPass:       firstNonEmpty(envStr("SMTP_PASS", ""), envStr("EMAIL_PASS", "")),
		SendgridAPIKey: envStr("SENDGRID_API_KEY", ""),
	}
}

func (m MailConfig) validate() error {
	switch m.Transport {
	case MailTransportLog:
		return nil
	case MailTransportSMTP:
		if m.SMTPHost == "" || m.From == "" {
			return fmt.Errorf("smtp transport needs SMTP_HOST and MAIL_FROM (or SMTP_USER)")
		}
		return nil
	case MailTransportSendgrid:
		if m.SendgridAPIKey == "" || m.From == "" {
			return fmt.Errorf("sendgrid transport needs SENDGRID_API_KEY and MAIL_FROM")
		}
		return nil
	}
	return fmt.Errorf("unknown MAIL_TRANSPORT: %q", m.Transport)
}
