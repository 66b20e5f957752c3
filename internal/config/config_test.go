package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("EMAIL_TIMEOUT", "")
	t.Setenv("SCHEDULER_WORKERS", "")
	t.Setenv("SCHEDULER_SPEC", "")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.EmailTimeout)
	assert.Equal(t, 1, cfg.SchedulerWorkers)
	assert.Equal(t, "* * * * *", cfg.SchedulerSpec)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("EMAIL_TIMEOUT", "5s")
	t.Setenv("SCHEDULER_WORKERS", "4")
	t.Setenv("TOKEN_EXPIRY", "1h")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.EmailTimeout)
	assert.Equal(t, 4, cfg.SchedulerWorkers)
	assert.Equal(t, time.Hour, cfg.TokenExpiry)
}

func TestLoadConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("EMAIL_TIMEOUT", "soon")
	t.Setenv("SCHEDULER_WORKERS", "-2")

	cfg := LoadConfig()

	assert.Equal(t, 30*time.Second, cfg.EmailTimeout)
	assert.Equal(t, 1, cfg.SchedulerWorkers)
}
