package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("PROVIDER_BASE_URL", "http://localhost:8081")
	t.Setenv("PROVIDER_API_KEY", "partner-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_HOST", "")
	t.Setenv("CACHE_TTL_MINUTES", "")
	t.Setenv("OTEL_SERVICE_NAME", "")

	config, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", config.AppPort)
	assert.Equal(t, 15, config.CacheTTLMinutes)
	assert.Equal(t, 10, config.HTTPTimeoutSeconds)
	assert.False(t, config.RedisConfig.Enabled())
	assert.Equal(t, "awardfinder", config.Observability.ServiceName)
	assert.Equal(t, "partner-key", config.ProviderConfig.APIKey)
}

func TestLoad_Optional(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("CACHE_TTL_MINUTES", "30")
	t.Setenv("NODE_ID", "7")
	t.Setenv("LLM_API_KEY", "sk-test")

	config, err := Load()

	require.NoError(t, err)
	assert.True(t, config.RedisConfig.Enabled())
	assert.Equal(t, "redis:6379", config.RedisConfig.Addr())
	assert.Equal(t, 30, config.CacheTTLMinutes)
	assert.Equal(t, int64(7), config.NodeID)
	assert.Equal(t, "sk-test", config.LLMConfig.APIKey)
}

func TestLoad_CollectsAllErrors(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("PROVIDER_BASE_URL", "")
	t.Setenv("PROVIDER_API_KEY", "x")
	t.Setenv("CACHE_TTL_MINUTES", "soon")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing env: APP_ENV")
	assert.Contains(t, err.Error(), "missing env: APP_PORT")
	assert.Contains(t, err.Error(), "missing env: PROVIDER_BASE_URL")
	assert.Contains(t, err.Error(), "conversion failed env: CACHE_TTL_MINUTES")
	assert.NotContains(t, err.Error(), "PROVIDER_API_KEY")
}
