package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("EMAIL_USER", "workshop@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, "workshop", cfg.MongoDatabase)
	assert.Equal(t, "feedbacks", cfg.FeedbackCollection)
	assert.Equal(t, 10*time.Second, cfg.MongoConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "workshop@example.com", cfg.MailReplyTo)
	assert.Equal(t, "workshop@example.com", cfg.FeedbackMailbox)
	assert.False(t, cfg.Development)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "Development")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("FEEDBACK_MAILBOX", "service@example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.Development)
	assert.Equal(t, 750*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "service@example.com", cfg.FeedbackMailbox)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("EMAIL_USER", "")
	t.Setenv("EMAIL_PASS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
	assert.Contains(t, err.Error(), "EMAIL_USER")
	assert.Contains(t, err.Error(), "EMAIL_PASS")
}

func TestLoadConfigFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "feedback.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mongo_db: garage\ntimezone: UTC\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "garage", cfg.MongoDatabase)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"x"}, parseList("", []string{"x"}))
	assert.Equal(t, []string{"x"}, parseList(" , ", []string{"x"}))
	assert.Equal(t, []string{"a", "b"}, parseList("a,b", nil))
}
