package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
environment: test
server:
  port: 3000
  read_timeout: 10s
session:
  timeframe: 30s
  chart_poll_interval: 2s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "30s", cfg.Session.Timeframe)
	assert.Equal(t, 2*time.Second, cfg.Session.ChartPollInterval)
}

func TestLoadValidates(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing environment", "server:\n  port: 3000\n"},
		{"bad port", "environment: test\nserver:\n  port: 0\n"},
		{"kafka without brokers", "environment: test\nserver:\n  port: 3000\nkafka:\n  enabled: true\n"},
		{"clickhouse without host", "environment: test\nserver:\n  port: 3000\nclickhouse:\n  enabled: true\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: test
server:
  port: 3000
helius:
  api_key: from-file
`)

	t.Setenv("HELIUS_API_KEY", "from-env")
	t.Setenv("TRACKED_TOKEN", "So11111111111111111111111111111111111111112")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Helius.APIKey)
	assert.Equal(t, "So11111111111111111111111111111111111111112", cfg.Session.Token)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}
