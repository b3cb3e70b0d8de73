package config

import (
	"errors"
	"fmt"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	AuthModeToken  = "token"
	AuthModeLookup = "lookup"

	CredentialStoreFile     = "file"
	CredentialStorePostgres = "postgres"
	CredentialStoreMemory   = "memory"

	TelemetrySinkHTTP       = "http"
	TelemetrySinkClickHouse = "clickhouse"
	TelemetrySinkNone       = "none"
)

type Config struct {
	APIBaseURL string `env:"RETAIL_API_BASE_URL,default=http://my.retail.local/api"`
	AuthMode   string `env:"AUTH_MODE,default=token"`

	CredentialStore string `env:"CREDENTIAL_STORE,default=file"`
	CredentialFile  string `env:"CREDENTIAL_FILE,default=.retail_token"`
	DatabaseURL     string `env:"DATABASE_URL"`

	TelemetrySink      string `env:"TELEMETRY_SINK,default=http"`
	TelemetryQueueSize int    `env:"TELEMETRY_QUEUE_SIZE,default=64"`
	ClickHouse         ClickHouseConfig

	PaymentMethod          string `env:"PAYMENT_METHOD,default=Credit Card"`
	DefaultShippingAddress string `env:"DEFAULT_SHIPPING_ADDRESS,default=123 Main St"`

	Port     string `env:"PORT,default=8080"`
	FEOrigin string `env:"FE_ORIGIN,default=http://localhost:3000"`
	GinMode  string `env:"GIN_MODE"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

type ClickHouseConfig struct {
	Host       string `env:"CLICKHOUSE_HOST"`
	NativePort int    `env:"CLICKHOUSE_NATIVE_PORT,default=9000"`
	Database   string `env:"CLICKHOUSE_DB_NAME,default=default"`
	Username   string `env:"CLICKHOUSE_USERNAME,default=default"`
	Password   string `env:"CLICKHOUSE_PASSWORD"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load(log logrus.FieldLogger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file found or error loading .env: %v", err)
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeToken, AuthModeLookup:
	default:
		return fmt.Errorf("invalid AUTH_MODE %q", c.AuthMode)
	}

	switch c.CredentialStore {
	case CredentialStoreFile, CredentialStoreMemory:
	case CredentialStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when CREDENTIAL_STORE=postgres")
		}
	default:
		return fmt.Errorf("invalid CREDENTIAL_STORE %q", c.CredentialStore)
	}

	switch c.TelemetrySink {
	case TelemetrySinkHTTP, TelemetrySinkNone:
	case TelemetrySinkClickHouse:
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("CLICKHOUSE_HOST is required when TELEMETRY_SINK=clickhouse")
		}
	default:
		return fmt.Errorf("invalid TELEMETRY_SINK %q", c.TelemetrySink)
	}

	if c.TelemetryQueueSize < 1 {
		return fmt.Errorf("TELEMETRY_QUEUE_SIZE must be positive")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("RETAIL_API_BASE_URL must not be empty")
	}
	return nil
}

// Logger builds the process logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	return NewLogger(c.LogLevel)
}

// NewLogger returns a JSON logrus logger with the field names the log
// pipeline expects.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
	}
	return log
}
