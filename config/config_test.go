package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/prescriptions")
	t.Setenv("API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "eng", cfg.OCRLanguage)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, "secret", cfg.APIKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/prescriptions")
	t.Setenv("API_KEY", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("API_KEY", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/prescriptions")
	t.Setenv("API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}
