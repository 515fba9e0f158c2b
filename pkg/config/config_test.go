package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(50<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "memos", cfg.Storage.Prefix)
	assert.Equal(t, 3, cfg.Assembly.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Assembly.RetryStep)
	assert.False(t, cfg.Storage.Enabled())
	assert.False(t, cfg.Assembly.Enabled())
	assert.False(t, cfg.Groq.Enabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("STORAGE_BUCKET", "voice-memo")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("ASSEMBLYAI_API_KEY", "asm-key")
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddr())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Storage.Enabled())
	assert.True(t, cfg.Storage.UseSSL)
	assert.True(t, cfg.Assembly.Enabled())
	assert.True(t, cfg.Groq.Enabled())
	assert.True(t, cfg.Redis.Enabled())
}

func TestFromEnv_EndpointWithoutBucket(t *testing.T) {
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "STORAGE_BUCKET")
}

func TestFromEnv_RejectsZeroAttempts(t *testing.T) {
	t.Setenv("ASSEMBLYAI_MAX_ATTEMPTS", "0")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_MemoryDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Storage.Enabled())
	assert.True(t, cfg.Storage.InMemory())

	t.Setenv("STORAGE_DRIVER", "s3")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}
