package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAREER_RESET_DELAY", "")
	t.Setenv("QUEUE_BACKEND", "")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.CareerResetDelay)
	assert.Equal(t, "redis", cfg.QueueBackend)
	assert.Equal(t, 2*time.Second, cfg.RedisDialTimeout)
	assert.Equal(t, time.Second, cfg.RedisIOTimeout)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("CAREER_RESET_DELAY", "250ms")
	t.Setenv("RATE_LIMIT_PER_MIN", "7")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_IO_TIMEOUT", "300ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	assert.True(t, cfg.Production())
	assert.Equal(t, 250*time.Millisecond, cfg.CareerResetDelay)
	assert.Equal(t, 7, cfg.RateLimitPerMin)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 300*time.Millisecond, cfg.RedisIOTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SUBMIT_TIMEOUT", "soon")
	t.Setenv("MAX_UPLOAD_BYTES", "lots")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.LogPretty)
}

func TestCloudinaryConfigured(t *testing.T) {
	cfg := App{CloudinaryCloudName: "demo", CloudinaryAPIKey: "key"}
	assert.False(t, cfg.CloudinaryConfigured())
	cfg.CloudinaryAPISecret = "secret"
	assert.True(t, cfg.CloudinaryConfigured())
}
