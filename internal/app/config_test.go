package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("API_PREFIX", "api/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "access_token", cfg.TokenCookie)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "0s")
	_, err := LoadConfig()
	assert.Error(t, err)
}
