package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "header")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 300*time.Second, cfg.Quiz.QuestionTimeLimit)
	assert.Equal(t, 10*time.Minute, cfg.Cache.QuestionsTTL)
	assert.Equal(t, "interview-events", cfg.Events.Topic)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "header")
	t.Setenv("QUESTION_TIME_LIMIT", "90s")
	t.Setenv("OPENAI_MAX_TOKENS", "512")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("OPENAI_TEMPERATURE", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Quiz.QuestionTimeLimit)
	assert.Equal(t, 512, cfg.Feedback.MaxTokens)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 0.2, cfg.Feedback.Temperature)
}

func TestLoadQuizConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_PROVIDER", "unknown")
	t.Setenv("QUESTION_TIME_LIMIT", "45s")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_TEMPERATURE", "0.7")
	t.Setenv("FEEDBACK_TIMEOUT", "20s")
	t.Setenv("FEEDBACK_RATE_PER_MINUTE", "5")

	_, err := LoadConfig()
	require.Error(t, err)

	cfg, err := LoadQuizConfig()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Quiz.QuestionTimeLimit)

	openai := cfg.Feedback.OpenAI()
	assert.Equal(t, "sk-test", openai.APIKey)
	assert.Equal(t, 0.7, openai.Temperature)
	assert.Equal(t, 20*time.Second, openai.Timeout)
	assert.Equal(t, 5, openai.RatePerMinute)
	assert.Equal(t, 2000, openai.MaxTokens)

	t.Setenv("OPENAI_TEMPERATURE", "3")
	_, err = LoadQuizConfig()
	assert.ErrorContains(t, err, "OPENAI_TEMPERATURE")
}

func TestValidate(t *testing.T) {
	t.Run("casdoor requires credentials", func(t *testing.T) {
		cfg := &Config{DatabaseURL: "postgres://x", Auth: AuthConfig{Provider: "casdoor"}, Feedback: FeedbackConfig{MaxTokens: 1}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("header provider rejected in production", func(t *testing.T) {
		cfg := &Config{DatabaseURL: "postgres://x", Environment: "production", Auth: AuthConfig{Provider: "header"}, Feedback: FeedbackConfig{MaxTokens: 1}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("valid casdoor", func(t *testing.T) {
		cfg := &Config{
			DatabaseURL: "postgres://x",
			Auth:        AuthConfig{Provider: "casdoor", Endpoint: "https://auth", ClientID: "id", Certificate: "cert"},
			Feedback:    FeedbackConfig{MaxTokens: 100, Temperature: 0.5},
		}
		assert.NoError(t, cfg.Validate())
	})
}

func TestEventConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := EventConfig{KafkaBrokers: "a:9092, b:9092,"}
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.GetKafkaBrokers())

	disabled := EventConfig{Enabled: false}
	pub, err := disabled.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)

	unknown := EventConfig{Enabled: true, Publisher: "nats"}
	pub, err = unknown.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)
}
