package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, TokenStoreFile, cfg.Tokens.Store)
	assert.Equal(t, 350*time.Millisecond, cfg.UI.FilterDebounce)
	assert.Equal(t, 3500*time.Millisecond, cfg.UI.ToastTTL)
	assert.Equal(t, "scanova:", cfg.Tokens.KeyPrefix)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_BASE_URL", "https://api.scanova.test/")
	t.Setenv("TOKEN_STORE", " Redis ")
	t.Setenv("FILTER_DEBOUNCE", "50ms")
	t.Setenv("TOAST_TTL", "not-a-duration")
	t.Setenv("MOCK_ALLOWED_ORIGINS", "http://localhost:5173, ,http://127.0.0.1:5173")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.scanova.test", cfg.API.BaseURL)
	assert.Equal(t, TokenStoreRedis, cfg.Tokens.Store)
	assert.Equal(t, 50*time.Millisecond, cfg.UI.FilterDebounce)
	assert.Equal(t, 3500*time.Millisecond, cfg.UI.ToastTTL)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.Mock.AllowedOrigins)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
