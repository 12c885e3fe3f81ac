package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("PORT", "9090")
	t.Setenv("LOCK_EXPIRY", "5s")
	t.Setenv("UTILIZATION_ALERT_THRESHOLD", "75.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("APPROVER_MIN_ROLE_LEVEL", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.LockExpiry)
	assert.Equal(t, "75.5", cfg.UtilizationAlertThreshold.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 4, cfg.ApproverMinRoleLevel)
	assert.Equal(t, "Finance & Accounting", cfg.FinanceDepartment)
	assert.Empty(t, cfg.PosthogAPIKey)
	assert.Equal(t, "https://eu.i.posthog.com", cfg.PosthogEndpoint)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	viper.Reset()
	t.Setenv("LOCK_EXPIRY", "soon")
	t.Setenv("UTILIZATION_ALERT_THRESHOLD", "lots")
	t.Setenv("DEFAULT_PAGE_SIZE", "-3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.LockExpiry)
	assert.Equal(t, "80", cfg.UtilizationAlertThreshold.String())
	assert.Equal(t, 20, cfg.DefaultPageSize)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}
