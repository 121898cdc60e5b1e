package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/site")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MAIL_TRANSPORT", "log")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.AllowedOrigins)
	assert.False(t, cfg.CMSStrictKeys)
	assert.Equal(t, MailTransportLog, cfg.Mail.Transport)
}

func TestLoad_MissingRequiredFailsFast(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MAIL_TRANSPORT", "log")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_AllowedOriginsAreTrimmed(t *testing.T) {
	setRequired(t)
	t.Setenv("FRONTEND_URL", " https://palclasses.com , https://admin.palclasses.com,, ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://palclasses.com", "https://admin.palclasses.com"}, cfg.AllowedOrigins)
}

func TestLoad_UnknownMailTransport(t *testing.T) {
	setRequired(t)
	t.Setenv("MAIL_TRANSPORT", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAIL_TRANSPORT")
}

func TestLoad_SMTPAliases(t *testing.T) {
	setRequired(t)
	t.Setenv("MAIL_TRANSPORT", "smtp")
	t.Setenv("SMTP_USER", "")
	t.Setenv("MAIL_FROM", "")
	t.Setenv("EMAIL_USER", "office@palclasses.com")
	t.Setenv("EMAIL_PASS", "app-password")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "office@palclasses.com", cfg.Mail.SMTPUser)
	assert.Equal(t, "office@palclasses.com", cfg.Mail.From)
	assert.Equal(t, "app-password", cfg.Mail.SMTPPass)
	assert.Equal(t, 465, cfg.Mail.SMTPPort)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 10*time.Second, rl.TTL)
}
