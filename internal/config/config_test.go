package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("REDIS_TTL", "5m")
	t.Setenv("STRIPE_SECRET_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "PEN", cfg.Billing.Currency)
	assert.Equal(t, 24*time.Hour, cfg.Billing.IdempotencyTTL)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.UseStripe())
}
