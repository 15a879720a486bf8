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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
provider:
  type: vnquote
  base_url: http://quotes.local
  retry_delay: 250ms
trade:
  rr_min: 2.5
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 2, c.Provider.Retries)
	assert.Equal(t, 250*time.Millisecond, c.Provider.RetryDelay)
	assert.Equal(t, 2.5, c.Trade.RRMin)
	assert.Equal(t, 70, c.Trade.SharkMinScore)
	assert.Equal(t, 10, c.Trade.MaxScanSymbols)
	assert.Equal(t, CacheMemory, c.Cache.Backend)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown provider", "provider:\n  type: ssi\n"},
		{"vnquote without url", "provider:\n  type: vnquote\n"},
		{"clickhouse without host", "provider:\n  type: clickhouse\n"},
		{"scan limit above 10", "provider:\n  base_url: http://x\ntrade:\n  max_scan_symbols: 11\n"},
		{"non-positive rr", "provider:\n  base_url: http://x\ntrade:\n  rr_min: 0\n"},
		{"kafka without brokers", "provider:\n  base_url: http://x\nkafka:\n  enabled: true\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	path := writeConfig(t, "provider:\n  base_url: http://quotes.local\n")
	t.Setenv("SHARK_SERVER_PORT", "9090")
	t.Setenv("SHARK_RR_MIN", "3")
	t.Setenv("SHARK_KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 3.0, c.Trade.RRMin)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
}
