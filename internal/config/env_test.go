package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stridelabs/stride/internal/log"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	app := cfg.Normalize().ToAppConfig()
	require.Equal(t, DefaultHost, app.Host())
	require.Equal(t, DefaultPort, app.Port())
	require.Equal(t, DefaultRetrievalLimit, app.RetrievalLimit())
	require.Equal(t, log.FormatPretty, app.LogFormat())
	require.NotEmpty(t, app.DataDir())
	require.Nil(t, app.EmbeddingEndpoint())
	require.Nil(t, app.ChatEndpoint())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("API_KEYS", "k1, k2,")
	t.Setenv("EMBEDDING_ENDPOINT_API_KEY", "sk-embed")
	t.Setenv("EMBEDDING_ENDPOINT_TIMEOUT", "10")
	t.Setenv("CHAT_ENDPOINT_API_KEY", "sk-chat")
	t.Setenv("CHAT_ENDPOINT_MODEL", "gpt-4o")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	app := cfg.Normalize().ToAppConfig()
	require.Equal(t, "127.0.0.1:9090", app.Addr())
	require.Equal(t, log.FormatJSON, app.LogFormat())
	require.Equal(t, []string{"k1", "k2"}, app.APIKeys())

	embed := app.EmbeddingEndpoint()
	require.NotNil(t, embed)
	require.Equal(t, "sk-embed", embed.APIKey())
	require.Equal(t, DefaultEmbeddingModel, embed.Model())
	require.Equal(t, 10*time.Second, embed.Timeout())

	chat := app.ChatEndpoint()
	require.NotNil(t, chat)
	require.Equal(t, "gpt-4o", chat.Model())
}

func TestAppConfig_Apply(t *testing.T) {
	cfg := NewAppConfig().Apply(WithPort(1234), WithRetrievalLimit(3))
	require.Equal(t, 1234, cfg.Port())
	require.Equal(t, 3, cfg.RetrievalLimit())

	// Non-positive retrieval limits keep the previous value.
	cfg = cfg.Apply(WithRetrievalLimit(0))
	require.Equal(t, 3, cfg.RetrievalLimit())
}
