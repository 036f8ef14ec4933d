package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTConfigFromEnv_DefaultValues(t *testing.T) {
	cfg, err := JWTConfigFromEnv(envMap(map[string]string{"JWT_SECRET": "0123456789abcdef"}))
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
	assert.Equal(t, "jobfit", cfg.Issuer)
}

func TestJWTConfigFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"bad expiration", map[string]string{"JWT_SECRET": "0123456789abcdef", "JWT_EXPIRATION_HOURS": "soon"}},
		{"zero expiration", map[string]string{"JWT_SECRET": "0123456789abcdef", "JWT_EXPIRATION_HOURS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := JWTConfigFromEnv(envMap(tt.env))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestJWTConfigFromEnv_Custom(t *testing.T) {
	cfg, err := JWTConfigFromEnv(envMap(map[string]string{
		"JWT_SECRET":           "0123456789abcdef",
		"JWT_EXPIRATION_HOURS": "48",
		"JWT_ISSUER":           "acme",
	}))
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)
	assert.Equal(t, "acme", cfg.Issuer)
}

func TestNewJWTConfig_UsesProcessEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "fedcba9876543210")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "fedcba9876543210", cfg.Secret)
}
