package app_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/app"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, app.DefaultConfig().Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: relay.example:4000
timeout: 3s
wrap: ecdh
log:
  level: debug
`), 0o600))

	cfg := app.DefaultConfig()
	require.NoError(t, app.LoadFile(path, &cfg))

	assert.Equal(t, "relay.example:4000", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, app.WrapECDH, cfg.Wrap)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched fields keep their defaults.
	assert.Equal(t, 1024, cfg.MaxReply)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := app.DefaultConfig()
	assert.Error(t, app.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: [1, 2"), 0o600))
	assert.Error(t, app.LoadFile(path, &cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*app.Config)
	}{
		{"no port", func(c *app.Config) { c.Addr = "localhost" }},
		{"zero timeout", func(c *app.Config) { c.Timeout = 0 }},
		{"zero max reply", func(c *app.Config) { c.MaxReply = 0 }},
		{"unknown wrap", func(c *app.Config) { c.Wrap = "rsa" }},
		{"key and ephemeral", func(c *app.Config) { c.Key = "00"; c.Ephemeral = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := app.DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
