package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	CORS     CORSConfig
	TLS      TLSConfig
	Sendgrid SendgridConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if strings.TrimSpace(cfg.DB.URL) == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	cfg.App.Env = strings.ToLower(strings.TrimSpace(cfg.App.Env))
	if err := cfg.TLS.validate(cfg.App.Env); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env       string `envconfig:"ITAMS_APP_ENV" default:"development"`
	Port      string `envconfig:"ITAMS_APP_PORT"`
	LogLevel  string `envconfig:"ITAMS_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"ITAMS_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsProd() bool {
	return a.Env == AppEnvProd
}

type DBConfig struct {
	URL             string        `envconfig:"DATABASE_URL" required:"true"`
	MaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns        int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"5m"`
	MigrateOnStart  bool          `envconfig:"APPLY_SCHEMA_ON_START" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins   []string `envconfig:"CORS_ALLOWED_ORIGINS"`
	AllowCredentials bool     `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
}

// Origins trims the configured list and falls back to a wildcard.
func (c CORSConfig) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, p := range c.AllowedOrigins {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type TLSConfig struct {
	Enabled         bool   `envconfig:"ENABLE_TLS" default:"false"`
	CertPath        string `envconfig:"TLS_CERT_PATH"`
	KeyPath         string `envconfig:"TLS_KEY_PATH"`
	CertPEM         string `envconfig:"TLS_CERT"`
	KeyPEM          string `envconfig:"TLS_KEY"`
	AllowSelfSigned bool   `envconfig:"TLS_SELF_SIGNED" default:"true"`
}

func (t *TLSConfig) validate(env string) error {
	if env != AppEnvProd {
		return nil
	}
	// TLS is mandatory in production.
	t.Enabled = true
	if t.CertPath == "" || t.KeyPath == "" {
		return fmt.Errorf("TLS_CERT_PATH and TLS_KEY_PATH are required in production")
	}
	return nil
}

type SendgridConfig struct {
	APIKey          string   `envconfig:"SENDGRID_API_KEY"`
	SenderEmail     string   `envconfig:"SENDGRID_SENDER_EMAIL"`
	SenderName      string   `envconfig:"SENDGRID_SENDER_NAME" default:"Asset Management"`
	AuditRecipients []string `envconfig:"AUDIT_REPORT_RECIPIENTS"`
}

// Enabled reports whether close notifications can be delivered.
func (s SendgridConfig) Enabled() bool {
	return s.APIKey != "" && s.SenderEmail != "" && len(s.AuditRecipients) > 0
}

// ListenPort picks the configured port or the conventional default.
func (c *Config) ListenPort() string {
	if c.App.Port != "" {
		return c.App.Port
	}
	if c.TLS.Enabled {
		return "8443"
	}
	return "8080"
}
