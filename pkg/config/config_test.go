package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
db:
  host: localhost
  port: 5432
  user: prodex
  password: secret
  name: prodex
redis:
  addr: localhost:6379
jwt:
  secret: test-secret
server:
  port: "8080"
client:
  api_base: http://localhost:8080
  poll_interval: 10s
  tombstone_path: /tmp/tombstones.db
`)

	cfg := Load(path)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Client.PollInterval)
	assert.Equal(t, "/tmp/tombstones.db", cfg.Client.TombstonePath)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
db:
  host: localhost
`)

	cfg := Load(path)
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:4000", cfg.Client.APIBase)
	assert.Equal(t, 5*time.Second, cfg.Client.PollInterval)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
db:
  host: filehost
  port: 5432
server:
  port: "8080"
client:
  api_base: http://filehost:8080
`)

	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PRODEX_API_URL", "http://envhost:9090")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := Load(path)
	assert.Equal(t, "envhost", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://envhost:9090", cfg.Client.APIBase)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}

func TestEnvIgnoresMalformedPort(t *testing.T) {
	path := writeConfig(t, `
db:
  port: 5432
`)

	t.Setenv("DB_PORT", "not-a-number")

	cfg := Load(path)
	assert.Equal(t, 5432, cfg.DB.Port)
}
