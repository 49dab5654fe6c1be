package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("IYFFA_JWT_SECRET", "super-secret")
	t.Setenv("IYFFA_SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("IYFFA_SUPABASE_SERVICE_KEY", "service-key")
	t.Setenv("IYFFA_STRIPE_SECRET_KEY", "sk_test_key")
	t.Setenv("IYFFA_STRIPE_WEBHOOK_SECRET", "whsec_key")
	t.Setenv("IYFFA_EMAIL_API_KEY", "re_test_key")
}

func TestLoadSecretsFromEnvWithoutConfigFile(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "super-secret", cfg.JWT.Secret)
	assert.Equal(t, "https://project.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "service-key", cfg.Supabase.ServiceKey)
	assert.Equal(t, "sk_test_key", cfg.Stripe.SecretKey)
	assert.Equal(t, "whsec_key", cfg.Stripe.WebhookSecret)
	assert.Equal(t, "re_test_key", cfg.Email.APIKey)
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "info@iyffa.ch", cfg.Email.FromAddress)
	assert.Equal(t, 15, cfg.JWT.AccessTTLMin)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10, cfg.RecipientRateLimit.MaxPerHour)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IYFFA_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadFailsWithoutJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IYFFA_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IYFFA_JWT_SECRET")
}
