package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "WEBHOOK_URL", "WEBHOOK_VARIANT", "REPLIER", "STORAGE_PATH",
		"CORS_ALLOWED_ORIGINS", "CHAT_GREETING",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_MODEL",
		"ARK_TEMPERATURE", "ARK_TOP_P", "ARK_MAX_TOKENS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DefaultWebhookURL, cfg.Webhook.URL)
	assert.Equal(t, "session", cfg.Webhook.Variant)
	assert.Equal(t, ReplierWebhook, cfg.Replier)
	assert.False(t, cfg.Storage.Persistent())
	assert.False(t, cfg.AI.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("WEBHOOK_URL", "http://localhost:5678/webhook/x")
	t.Setenv("WEBHOOK_VARIANT", "LEGACY")
	t.Setenv("STORAGE_PATH", "/tmp/chat")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_MODEL", "ep-1")
	t.Setenv("ARK_MAX_TOKENS", "256")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "legacy", cfg.Webhook.Variant)
	assert.True(t, cfg.Storage.Persistent())
	assert.True(t, cfg.AI.Enabled())
	require.NotNil(t, cfg.AI.MaxTokens)
	assert.Equal(t, 256, *cfg.AI.MaxTokens)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"port with space": {"PORT", "80 80"},
		"webhook scheme":  {"WEBHOOK_URL", "ftp://example"},
		"replier":         {"REPLIER", "carrier-pigeon"},
		"temperature":     {"ARK_TEMPERATURE", "hot"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
