package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RETAIL_API_BASE_URL", "http://api.test/api")

	cfg, err := Load(logrus.New())
	require.NoError(t, err)

	assert.Equal(t, "http://api.test/api", cfg.APIBaseURL)
	assert.Equal(t, AuthModeToken, cfg.AuthMode)
	assert.Equal(t, CredentialStoreFile, cfg.CredentialStore)
	assert.Equal(t, ".retail_token", cfg.CredentialFile)
	assert.Equal(t, TelemetrySinkHTTP, cfg.TelemetrySink)
	assert.Equal(t, 64, cfg.TelemetryQueueSize)
	assert.Equal(t, "Credit Card", cfg.PaymentMethod)
	assert.Equal(t, "123 Main St", cfg.DefaultShippingAddress)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "lookup")
	t.Setenv("TELEMETRY_SINK", "none")
	t.Setenv("PAYMENT_METHOD", "Invoice")

	cfg, err := Load(logrus.New())
	require.NoError(t, err)

	assert.Equal(t, AuthModeLookup, cfg.AuthMode)
	assert.Equal(t, TelemetrySinkNone, cfg.TelemetrySink)
	assert.Equal(t, "Invoice", cfg.PaymentMethod)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			APIBaseURL:      "http://api.test",
			AuthMode:        AuthModeToken,
			CredentialStore: CredentialStoreMemory,
			TelemetrySink:   TelemetrySinkHTTP,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad auth mode", func(c *Config) { c.AuthMode = "oauth" }, "AUTH_MODE"},
		{"postgres without dsn", func(c *Config) { c.CredentialStore = CredentialStorePostgres }, "DATABASE_URL"},
		{"clickhouse without host", func(c *Config) { c.TelemetrySink = TelemetrySinkClickHouse }, "CLICKHOUSE_HOST"},
		{"unknown sink", func(c *Config) { c.TelemetrySink = "kafka" }, "TELEMETRY_SINK"},
		{"negative queue", func(c *Config) { c.TelemetryQueueSize = -1 }, "TELEMETRY_QUEUE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
