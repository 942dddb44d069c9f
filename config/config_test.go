package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, ProviderStripe, cfg.Payment.Provider)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.True(t, cfg.Reminder.Enabled)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "APP_PORT=9090\nJWT_SECRET=s3cret\nPAYMENT_PROVIDER=MIDTRANS\nMIDTRANS_SERVER_KEY=sk\nJWT_ACCESS_EXPIRY=1h\nAPP_BASE_URL=https://clinic.example/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, ProviderMidtrans, cfg.Payment.Provider)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, "https://clinic.example", cfg.App.BaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWT: JWTConfig{Secret: "x"},
			Payment: PaymentConfig{
				Provider:            ProviderStripe,
				StripeSecretKey:     "sk_test",
				StripeWebhookSecret: "whsec",
			},
		}
	}

	assert.NoError(t, base().Validate())

	noSecret := base()
	noSecret.JWT.Secret = ""
	assert.Error(t, noSecret.Validate())

	noWebhook := base()
	noWebhook.Payment.StripeWebhookSecret = ""
	assert.Error(t, noWebhook.Validate())

	unknown := base()
	unknown.Payment.Provider = "paypal"
	assert.Error(t, unknown.Validate())
}

func TestDBConfig_URL(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "medflow", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "postgres://u:p@db:5432/medflow?sslmode=disable", c.URL())
	assert.Contains(t, c.DSN(), "dbname=medflow")
	assert.Contains(t, c.DSN(), "TimeZone=UTC")
}
