package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 100, cfg.Redis.PoolSize)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Stats.OwnerOnly)
	assert.False(t, cfg.App.IsDevelopment())
}

func TestLoadFile_FromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nDB_NAME=shortener\nJWT_SECRET=from-file\nSTATS_OWNER_ONLY=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "development")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REDIS_DB", "3")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "shortener", cfg.DB.Name)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Stats.OwnerOnly)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadFile_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, config.ErrMissingJWTSecret)
}
