package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, "a11yscan.yaml", `
scan:
  rules:
    - img-alt-text
    - color-contrast
  timeout: 20s
  filter: severity == "error"
fetch:
  timeout: 45s
  user_agent: test-agent/1.0
redis:
  addr: redis.internal:6380
  db: 2
worker:
  concurrency: 8
  shutdown_timeout: 1m
  queue_prefix: a11y
registry:
  endpoints:
    - etcd-1:2379
  lease_ttl: 60
email:
  host: smtp.example.com
  from: scanner@example.com
  to:
    - team@example.com
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"img-alt-text", "color-contrast"}, cfg.Scan.GetRules())
	assert.Equal(t, 20*time.Second, cfg.Scan.GetTimeout())
	assert.Equal(t, `severity == "error"`, cfg.Scan.GetFilter())
	assert.Equal(t, 45*time.Second, cfg.Fetch.GetTimeout())
	assert.Equal(t, "redis.internal:6380", cfg.Redis.GetAddr())
	assert.Equal(t, 2, cfg.Redis.GetDB())
	assert.Equal(t, 8, cfg.Worker.GetConcurrency())
	assert.Equal(t, time.Minute, cfg.Worker.GetShutdownTimeout())
	assert.Equal(t, "a11y", cfg.Worker.GetQueuePrefix())
	assert.Equal(t, []string{"etcd-1:2379"}, cfg.Registry.Endpoints)
	assert.Equal(t, int64(60), cfg.Registry.GetLeaseTTL())
	assert.Equal(t, 587, cfg.Email.GetPort())
	assert.Equal(t, "debug", cfg.GetLogLevel())
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "a11yscan.yml"),
		[]byte("log_level: warn\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.GetLogLevel())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "a11yscan.yaml", "scan: [not a map")
	_, err := Load(path)
	require.Error(t, err)
}

func TestDefaultsOnNilSections(t *testing.T) {
	var cfg Config

	assert.Nil(t, cfg.Scan.GetRules())
	assert.Equal(t, 10*time.Second, cfg.Scan.GetTimeout())
	assert.Equal(t, 30*time.Second, cfg.Fetch.GetTimeout())
	assert.Equal(t, "localhost:6379", cfg.Redis.GetAddr())
	assert.Equal(t, 4, cfg.Worker.GetConcurrency())
	assert.Equal(t, 30*time.Second, cfg.Worker.GetShutdownTimeout())
	assert.Equal(t, 10*time.Second, cfg.Worker.GetHeartbeatInterval())
	assert.Equal(t, "scan", cfg.Worker.GetQueuePrefix())
	assert.Equal(t, 5*time.Second, cfg.Registry.GetDialTimeout())
	assert.Equal(t, int64(30), cfg.Registry.GetLeaseTTL())
	assert.Equal(t, "info", cfg.GetLogLevel())
}

func TestInvalidDurationFallsBack(t *testing.T) {
	scan := &ScanConfig{Timeout: "soon"}
	assert.Equal(t, 10*time.Second, scan.GetTimeout())
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "a11yscan.yaml", `
scan:
  rules: [img-alt-text]
redis:
  addr: from-file:6379
`)
	t.Setenv("PYACCESSIBILITY_RULES", "language, table-accessibility")
	t.Setenv("PYACCESSIBILITY_REDIS_ADDR", "from-env:6379")
	t.Setenv("PYACCESSIBILITY_LOG_LEVEL", "ERROR")
	t.Setenv("PYACCESSIBILITY_WORKER_CONCURRENCY", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"language", "table-accessibility"}, cfg.Scan.GetRules())
	assert.Equal(t, "from-env:6379", cfg.Redis.GetAddr())
	assert.Equal(t, "error", cfg.GetLogLevel())
	assert.Equal(t, 2, cfg.Worker.GetConcurrency())
}

func TestLoadOrDefaultWithoutPath(t *testing.T) {
	t.Setenv("PYACCESSIBILITY_SCAN_TIMEOUT", "3s")

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Scan.GetTimeout())
}
