package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 8080
database:
  driver: sqlite
  dsn: "file:folio.db"
jwt:
  secret: "s3cret"
reconcile:
  cron: "0 0 3 * * *"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	require.NoError(t, LoadConfig(path))
	assert.Equal(t, 8080, Cfg.Server.Port)
	assert.Equal(t, "sqlite", Cfg.DB.Driver)
	assert.Equal(t, "s3cret", Cfg.JWT.Secret)
	assert.Equal(t, 24, Cfg.JWT.ExpirationHours)
	assert.Equal(t, "0 0 3 * * *", Cfg.Reconcile.Cron)
	assert.False(t, Cfg.Kafka.Enable)
	assert.Equal(t, "folio-interactions", Cfg.KafkaInteraction.Topic)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt:\n  secret: from-file\n"), 0o600))

	t.Setenv("FOLIO_JWT_SECRET", "from-env")
	t.Setenv("FOLIO_SERVER_PORT", "9090")

	require.NoError(t, LoadConfig(path))
	assert.Equal(t, "from-env", Cfg.JWT.Secret)
	assert.Equal(t, 9090, Cfg.Server.Port)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 1\n"), 0o600))

	err := LoadConfig(path)
	assert.Error(t, err)
}
