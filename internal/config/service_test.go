package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger provides a simple logger implementation for testing
type mockLogger struct {
	infoMessages  []string
	errorMessages []string
}

func (m *mockLogger) LogInfo(msg string, fields map[string]interface{}) {
	m.infoMessages = append(m.infoMessages, msg)
}

func (m *mockLogger) LogError(err error, msg string) error {
	m.errorMessages = append(m.errorMessages, msg)
	return err
}

const testConfigYAML = `environment: test
server:
  port: 8081
database:
  host: localhost
  user: danevents_test
  password: danevents_test
  dbname: danevents_test
  port: 5432
auth:
  jwt:
    secret: test-secret
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, "config.yaml", testConfigYAML)

	service := NewConfigService(&mockLogger{})
	cfg, err := service.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "danevents_test", cfg.Database.Dbname)

	// unspecified settings fall back to defaults
	assert.Equal(t, 120*time.Second, cfg.Cache.EventTTL)
	assert.Equal(t, 200*time.Second, cfg.Cache.BookingTTL)
	assert.Equal(t, 120*time.Second, cfg.Cache.UserTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWT.AccessTokenTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxEventImageSize)
	assert.Equal(t, int64(2*1024*1024), cfg.Upload.MaxProfileImageSize)
	assert.Contains(t, cfg.Upload.AllowedExtensions, ".jpg")
	assert.Equal(t, "disable", cfg.Database.Sslmode)
}

func TestLoadConfigMissingJWTSecret(t *testing.T) {
	dir := writeConfig(t, "config.yaml", `environment: test
server:
  port: 8081
database:
  host: localhost
  user: danevents_test
  dbname: danevents_test
  port: 5432
`)

	service := NewConfigService(&mockLogger{})
	_, err := service.Load(dir)
	assert.Error(t, err)
}
