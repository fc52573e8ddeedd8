package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("PORT", "9090")
	t.Setenv("B2_BUCKET_NAME", "vidora-uploads")
	t.Setenv("VIEW_WINDOW", "12h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "vidora-uploads", cfg.Storage.Bucket)
	assert.Equal(t, 12*time.Hour, cfg.Engagement.ViewWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_FileLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
auth:
  jwt_secret: file-secret-0123456789
storage:
  bucket: from-file
library:
  watch_history_limit: 50
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Storage.Bucket)
	assert.Equal(t, 50, cfg.Library.WatchHistoryLimit)
	assert.Equal(t, 24*time.Hour, cfg.Engagement.ViewWindow)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("B2_BUCKET_NAME", "bucket")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestValidate_BucketRequiredWithEndpoint(t *testing.T) {
	cfg := defaultConfig()
	cfg.Auth.JWTSecret = "0123456789abcdef0123"
	cfg.Storage.Bucket = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.bucket")
}

func TestLoad_MailAndUploadTimeouts(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("B2_BUCKET_NAME", "vidora-uploads")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("MAIL_FROM", "noreply@vidora.test")
	t.Setenv("UPLOAD_TIMEOUT", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.Equal(t, "mailer", cfg.Mail.Username)
	assert.Equal(t, "noreply@vidora.test", cfg.Mail.From)
	assert.True(t, cfg.Mail.UseTLS)
	assert.Equal(t, 2*time.Hour, cfg.Upload.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
}

func TestValidate_MailFromRequiredWithHost(t *testing.T) {
	cfg := defaultConfig()
	cfg.Auth.JWTSecret = "0123456789abcdef0123"
	cfg.Storage.Bucket = "bucket"
	cfg.Mail.Host = "smtp.example.com"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.from")
}
