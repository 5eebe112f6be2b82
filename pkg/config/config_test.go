package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/itams")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, AppEnvDev, cfg.App.Env)
	require.Equal(t, "info", cfg.App.LogLevel)
	require.EqualValues(t, 10, cfg.DB.MaxConns)
	require.Equal(t, 5*time.Minute, cfg.DB.MaxConnIdleTime)
	require.True(t, cfg.DB.MigrateOnStart)
	require.Equal(t, []string{"*"}, cfg.CORS.Origins())
	require.Equal(t, "8080", cfg.ListenPort())
	require.False(t, cfg.Sendgrid.Enabled())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()

	require.Error(t, err)
}

func TestLoad_ProductionRequiresCertificates(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/itams")
	t.Setenv("ITAMS_APP_ENV", "Production")

	_, err := Load()

	require.ErrorContains(t, err, "TLS_CERT_PATH")
}

func TestLoad_ProductionForcesTLS(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/itams")
	t.Setenv("ITAMS_APP_ENV", "production")
	t.Setenv("ENABLE_TLS", "false")
	t.Setenv("TLS_CERT_PATH", "/certs/tls.crt")
	t.Setenv("TLS_KEY_PATH", "/certs/tls.key")

	cfg, err := Load()

	require.NoError(t, err)
	require.True(t, cfg.TLS.Enabled)
	require.Equal(t, "8443", cfg.ListenPort())
}

func TestCORSConfig_Origins(t *testing.T) {
	c := CORSConfig{AllowedOrigins: []string{" https://a.example ", "", "https://b.example"}}

	require.Equal(t, []string{"https://a.example", "https://b.example"}, c.Origins())
}
