package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcticroofing/arctic-portal/internal/backend"
)

func validConfig() *Config {
	return &Config{
		BaseURL:      "http://localhost:8080",
		SessionTTL:   120 * time.Hour,
		SignedURLTTL: time.Minute,
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		apiKey    string
		want      backend.Mode
	}{
		{"nothing configured", "", "", backend.ModeDemo},
		{"project only", "arctic-prod", "", backend.ModeDemo},
		{"key only", "", "AIza-key", backend.ModeDemo},
		{"both", "arctic-prod", "AIza-key", backend.ModeLive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.FirebaseProjectID = tt.projectID
			cfg.FirebaseAPIKey = tt.apiKey
			assert.Equal(t, tt.want, cfg.Mode())
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := map[string]func(*Config){
		"missing base url":    func(c *Config) { c.BaseURL = "" },
		"ttl too short":       func(c *Config) { c.SessionTTL = time.Minute },
		"ttl too long":        func(c *Config) { c.SessionTTL = 15 * 24 * time.Hour },
		"zero signed url ttl": func(c *Config) { c.SignedURLTTL = 0 },
		"smtp without sender": func(c *Config) { c.SMTPHost = "smtp.example.com" },
		"bad session key":     func(c *Config) { c.SessionKey = "not base64!" },
		"short session key":   func(c *Config) { c.SessionKey = base64.StdEncoding.EncodeToString([]byte("short")) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSessionKeyBytes(t *testing.T) {
	cfg := validConfig()
	key, err := cfg.SessionKeyBytes()
	require.NoError(t, err)
	assert.Nil(t, key)

	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	cfg.SessionKey = base64.StdEncoding.EncodeToString(raw)
	key, err = cfg.SessionKeyBytes()
	require.NoError(t, err)
	assert.Equal(t, raw, key)
}

func TestLoadConfigDefaultsToDemo(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("FIREBASE_API_KEY", "")
	t.Setenv("BASE_URL", "https://portal.arcticroofing.org/")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("SIGNED_URL_TTL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, backend.ModeDemo, cfg.Mode())
	assert.Equal(t, "https://portal.arcticroofing.org", cfg.BaseURL)
	assert.True(t, cfg.SecureCookies())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.SignedURLTTL)
	assert.Equal(t, "Arctic Roofing & Restoration", cfg.ContractorName)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadConfigLive(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "arctic-prod")
	t.Setenv("FIREBASE_API_KEY", "AIza-key")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "portal@arcticroofing.org")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, backend.ModeLive, cfg.Mode())
	assert.True(t, cfg.MailEnabled())
}
