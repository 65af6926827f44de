package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/arcticroofing/arctic-portal/internal/backend"
)

// Config holds all configuration for the application.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	BaseURL   string `mapstructure:"BASE_URL"`
	ClientURL string `mapstructure:"CLIENT_URL"`

	// The portal runs live only when both of these are set.
	FirebaseProjectID string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseAPIKey    string `mapstructure:"FIREBASE_API_KEY"`

	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	SessionKey   string        `mapstructure:"SESSION_KEY"` // Base64 encoded, 32 bytes
	SessionTTL   time.Duration `mapstructure:"SESSION_TTL"`
	SignedURLTTL time.Duration `mapstructure:"SIGNED_URL_TTL"`

	ContractorName  string `mapstructure:"CONTRACTOR_NAME"`
	ContractorPhone string `mapstructure:"CONTRACTOR_PHONE"`
	ContractorEmail string `mapstructure:"CONTRACTOR_EMAIL"`

	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort string `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	SMTPFrom string `mapstructure:"SMTP_FROM"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogDev   bool   `mapstructure:"LOG_DEV"`
}

var keys = []string{
	"PORT", "GIN_MODE", "BASE_URL", "CLIENT_URL",
	"FIREBASE_PROJECT_ID", "FIREBASE_API_KEY",
	"GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"SESSION_KEY", "SESSION_TTL", "SIGNED_URL_TTL",
	"CONTRACTOR_NAME", "CONTRACTOR_PHONE", "CONTRACTOR_EMAIL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM",
	"LOG_LEVEL", "LOG_DEV",
}

// LoadConfig loads configuration from environment variables using Viper.
// Missing Firebase settings are not an error; they select demo mode.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("SESSION_TTL", "120h")
	v.SetDefault("SIGNED_URL_TTL", "60s")
	v.SetDefault("CONTRACTOR_NAME", "Arctic Roofing & Restoration")
	v.SetDefault("CONTRACTOR_PHONE", "888-352-7284")
	v.SetDefault("CONTRACTOR_EMAIL", "support@arcticroofing.org")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("LOG_LEVEL", "info")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects malformed values. Absent optional values are fine.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BASE_URL is required")
	}
	if c.SessionKey != "" {
		if _, err := c.SessionKeyBytes(); err != nil {
			return err
		}
	}
	// Firebase only mints session cookies between 5 minutes and 2 weeks.
	if c.SessionTTL < 5*time.Minute || c.SessionTTL > 14*24*time.Hour {
		return fmt.Errorf("SESSION_TTL must be between 5m and 336h, got %s", c.SessionTTL)
	}
	if c.SignedURLTTL <= 0 {
		return errors.New("SIGNED_URL_TTL must be positive")
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		return errors.New("SMTP_FROM is required when SMTP_HOST is set")
	}
	return nil
}

// Mode reports live when both the backend endpoint and the public API key are configured.
func (c *Config) Mode() backend.Mode {
	if c.FirebaseProjectID != "" && c.FirebaseAPIKey != "" {
		return backend.ModeLive
	}
	return backend.ModeDemo
}

// SessionKeyBytes decodes SESSION_KEY. It returns nil, nil when unset.
func (c *Config) SessionKeyBytes() ([]byte, error) {
	if c.SessionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode SESSION_KEY from base64: %w", err)
	}
	if len(key) != 32 {
		return nil, errors.New("SESSION_KEY must be a 32-byte key (AES-256), after base64 decoding")
	}
	return key, nil
}

// MailEnabled reports whether branded sign-in mail goes out over SMTP.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// SecureCookies is true when the public origin is served over TLS.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}
