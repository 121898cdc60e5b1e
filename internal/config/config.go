package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  DATABASE_URL and JWT_SECRET are required; the
// process refuses to start without them.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DatabaseURL     string        // MySQL DSN
	JWTSecret       string        // secret used to sign JWTs
	BcryptCost      int           // bcrypt cost for password hashing
	AllowedOrigins  []string      // browser origins allowed by CORS
	RequestTimeout  time.Duration // per-request deadline applied by middleware
	CMSStrictKeys   bool          // reject CMS keys unknown to the schema
	RabbitMQURL     string        // lead event broker; empty disables publishing
	ConsumerEnabled bool          // run the lead event consumer in-process
	LeadLogDir      string        // directory for the consumer's log file

	Mail      MailConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool { return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production") }

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// Load reads configuration values from environment variables.  Missing
// required variables are collected and returned together so that an
// operator sees every problem at once.
func Load() (Config, error) {
	var errs []error
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", envStr("PORT", "5000")),
		DatabaseURL:     must("DATABASE_URL", &errs),
		JWTSecret:       must("JWT_SECRET", &errs),
		BcryptCost:      envInt("BCRYPT_COST", 10),
		AllowedOrigins:  parseList(os.Getenv("FRONTEND_URL")),
		RequestTimeout:  envDur("REQUEST_TIMEOUT", 15*time.Second),
		CMSStrictKeys:   envBool("CMS_STRICT_KEYS", false),
		RabbitMQURL:     firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		ConsumerEnabled: envBool("LEAD_CONSUMER_ENABLED", false),
		LeadLogDir:      envStr("LEAD_LOG_DIR", "logs"),
		Mail:            LoadMailConfig(),
		RateLimit:       LoadRateLimitConfig(),
		Cache:           LoadCacheConfig(),
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = append([]string(nil), defaultOrigins...)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("invalid BCRYPT_COST: %d", cfg.BcryptCost))
	}
	if err := cfg.Mail.validate(); err != nil {
		errs = append(errs, err)
	}
	return cfg, errors.Join(errs...)
}

// must retrieves the value of a required environment variable and records
// an error when it is unset or empty.
func must(key string, errs *[]error) string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		*errs = append(*errs, fmt.Errorf("missing required env var: %s", key))
		return ""
	}
	return v
}

func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
