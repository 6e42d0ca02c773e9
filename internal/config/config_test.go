package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/playgolfspainnow/chat-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "chat-api", cfg.ServiceName)
	require.Equal(t, ":8084", cfg.Addr())
	require.Equal(t, 5, cfg.MaxTurnIterations)
	require.Equal(t, 75*time.Second, cfg.ModelCallTimeout)
	require.Equal(t, 45*time.Second, cfg.ToolTimeout)
	require.Equal(t, "gpt-4o", cfg.OpenAIModel)
	require.False(t, cfg.HasOpenAI())
	require.False(t, cfg.HasPerplexity())
	require.False(t, cfg.GolfNowConfigured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")
	t.Setenv("MAX_TURN_ITERATIONS", "3")
	t.Setenv("GOLFNOW_USERNAME", "user")
	t.Setenv("GOLFNOW_PASSWORD", "pass")
	t.Setenv("GOLFNOW_CHANNEL_ID", "chan")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Addr())
	require.True(t, cfg.HasOpenAI())
	require.True(t, cfg.HasPerplexity())
	require.Equal(t, 3, cfg.MaxTurnIterations)
	require.True(t, cfg.GolfNowConfigured())
}

func TestLoadClampsNonPositiveBounds(t *testing.T) {
	t.Setenv("MAX_TURN_ITERATIONS", "-1")
	t.Setenv("MODEL_CALL_TIMEOUT", "0s")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 5, cfg.MaxTurnIterations)
	require.Equal(t, 75*time.Second, cfg.ModelCallTimeout)
}
