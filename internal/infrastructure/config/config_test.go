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

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: "https://api.example.org"
`)

	cfg, err := LoadFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.org", cfg.Backend.BaseURL)
	assert.Equal(t, "/api/payment/create-order", cfg.Backend.OrderPath)
	assert.Equal(t, "Save Deities", cfg.Gateway.DisplayName)
	assert.Equal(t, "#ea580c", cfg.Gateway.ThemeColor)
	assert.Equal(t, time.Duration(0), cfg.Gateway.AwaitTimeout)
	assert.Equal(t, []string{"500", "1000", "2500", "5000", "10000"}, cfg.Contribution.CasePresets)
	assert.Contains(t, cfg.Contribution.GeneralPresets, "25000")
	assert.Equal(t, "1000000", cfg.Contribution.MaxAmount)
	assert.Equal(t, 2*time.Hour, cfg.Contribution.SessionTTL)
	assert.True(t, cfg.IsDebug())
	assert.Same(t, cfg, Get())
}

func TestLoadFile_Overrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
gateway:
  await_timeout: 15m
contribution:
  strict_donor_validation: true
`)
	t.Setenv("CONTRIB_TOKEN_SECRET", "from-env")
	t.Setenv("CONTRIB_BACKEND_TIMEOUT", "3s")

	cfg, err := LoadFile(path, "release")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.False(t, cfg.IsDebug())
	assert.Equal(t, 15*time.Minute, cfg.Gateway.AwaitTimeout)
	assert.True(t, cfg.Contribution.StrictDonorValidation)
	assert.Equal(t, "from-env", cfg.Token.Secret)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := writeConfig(t, `
gateway:
  await_timeout: -1s
`)

	_, err := LoadFile(path, "")
	assert.ErrorContains(t, err, "await_timeout")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}
