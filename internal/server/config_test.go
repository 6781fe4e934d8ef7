package server

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServerConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, constants.DefaultServerAddress, cfg.Address)
		assert.Equal(t, constants.DefaultMaxUploadSizeBytes, cfg.UploadSizeBytes())
		assert.Empty(t, cfg.AllowedOrigins)
		assert.Equal(t, defaultReadTimeout, cfg.Timeouts.ReadTimeout())
		assert.Equal(t, defaultWriteTimeout, cfg.Timeouts.WriteTimeout())
		assert.Equal(t, defaultIdleTimeout, cfg.Timeouts.IdleTimeout())
		assert.Equal(t, defaultShutdownTimeout, cfg.Timeouts.ShutdownTimeout())
		assert.Zero(t, cfg.Logging)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeServerConfig(t, `address: 127.0.0.1:9000
maxUploadSize: 2M
timeouts:
  read: 5s
  shutdown: 2m
logging:
  level: debug
  format: console
  outputFile: /tmp/paydown-server.log
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Address)
	assert.Equal(t, int64(2*1024*1024), cfg.UploadSizeBytes())
	assert.Equal(t, "2097152", cfg.MaxUploadSize)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.ReadTimeout())
	assert.Equal(t, defaultWriteTimeout, cfg.Timeouts.WriteTimeout())
	assert.Equal(t, 2*time.Minute, cfg.Timeouts.ShutdownTimeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/tmp/paydown-server.log", cfg.Logging.OutputFile)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"bad size":          "maxUploadSize: invalid",
		"bad yaml":          "address: [",
		"bad timeout":       "timeouts:\n  write: soon",
		"negative timeout":  "timeouts:\n  idle: -1s",
		"unsupported units": "maxUploadSize: 1TB",
	}
	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeServerConfig(t, contents))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrConfiguration), "got %v", err)
		})
	}
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	path := writeServerConfig(t, `allowedOrigins:
  - http://localhost:5173
  - "  "
  - " https://paydown.example "
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://paydown.example"}, cfg.AllowedOrigins)
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
		"10 kb":     10 * 1024,
	}
	for input, expected := range tests {
		got, err := ParseSize(input)
		require.NoError(t, err, "ParseSize(%q)", input)
		assert.Equal(t, expected, got, "ParseSize(%q)", input)
	}

	for _, input := range []string{"1TB", "abc", "-5", "99999999999999999999G"} {
		_, err := ParseSize(input)
		assert.Error(t, err, "ParseSize(%q)", input)
	}
}
