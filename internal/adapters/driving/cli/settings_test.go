package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short secret", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Password", input: "redis-s3cret-pass", expected: "redi...pass"},
		{name: "DSN", input: "postgres://app:pw@db:5432/site", expected: "post...site"},
		{name: "Empty", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskSecret(tt.input))
		})
	}
}

func TestConfigCmd_Alias(t *testing.T) {
	assert.Contains(t, configCmd.Aliases, "settings")
}

func TestConfigCmd_ServiceNotConfigured(t *testing.T) {
	old := settingsService
	settingsService = nil
	defer func() { settingsService = old }()

	_, err := execute(t, "config", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestConfigSetShowUnset(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "config", "set", "search.default_limit", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "Set search.default_limit = 25")

	val, ok := env.config.Get("search.default_limit")
	require.True(t, ok)
	assert.Equal(t, int64(25), val)

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Regexp(t, `search\.default_limit\s+25\s+file`, out)
	assert.Regexp(t, `server\.addr\s+:8080\s+default`, out)

	out, err = execute(t, "config", "unset", "search.default_limit")
	require.NoError(t, err)
	assert.Contains(t, out, "Unset search.default_limit")
	_, ok = env.config.Get("search.default_limit")
	assert.False(t, ok)
}

func TestConfigSet_MasksSecrets(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "config", "set", "cache.redis_password", "redis-s3cret-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "redi...pass")
	assert.NotContains(t, out, "s3cret")
	assert.Equal(t, "redis-s3cret-pass", env.config.GetString("cache.redis_password"))

	out, err = execute(t, "config")
	require.NoError(t, err)
	assert.NotContains(t, out, "s3cret")
}

func TestConfigSet_Invalid(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "config", "set", "storage.backend", "mongo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "config", "set", "search.default_limit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a value")
}

func TestConfigKeys(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "config", "keys")
	require.NoError(t, err)
	assert.Regexp(t, `search\.default_limit\s+RELEVANCE_SEARCH_DEFAULT_LIMIT`, out)
	assert.Regexp(t, `scheduler\.content_reindex\.interval\s+RELEVANCE_SCHEDULER_CONTENT_REINDEX_INTERVAL`, out)
}
