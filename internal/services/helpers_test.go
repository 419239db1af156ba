package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/cache"
	"github.com/SAP-F-2025/interview-service/internal/events"
	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/metrics"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories/memory"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store     *memory.Store
	clock     *clockwork.FakeClock
	publisher *events.MockEventPublisher
	metrics   *metrics.Metrics
	services  ServiceManager
}

func newTestEnv(t *testing.T, gen feedback.Generator) *testEnv {
	t.Helper()

	logger := discard()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	store := memory.New(clock)
	publisher := events.NewMockEventPublisher(logger)
	m := metrics.New(prometheus.NewRegistry())

	return &testEnv{
		store:     store,
		clock:     clock,
		publisher: publisher,
		metrics:   m,
		services: NewServiceManager(Dependencies{
			Repo:           store,
			EventPublisher: publisher,
			Generator:      gen,
			Metrics:        m,
			Clock:          clock,
			Logger:         logger,
			Attempts:       AttemptServiceConfig{QuestionsTTL: time.Minute},
		}),
	}
}

func strPtr(s string) *string { return &s }

// scenarioInterview is the two question interview used across the tests:
// a 5 point multiple-choice question with answer "B" and a 10 point text
// question.
func scenarioInterview(t *testing.T, env *testEnv) *models.Interview {
	t.Helper()

	interview, err := env.services.Interview().CreateInterview(context.Background(), &CreateInterviewRequest{
		Role:  "Backend Engineer",
		Level: "Junior",
		Type:  "Technical",
		Questions: []CreateQuestionRequest{
			{
				Type:          models.QuestionMultipleChoice,
				Prompt:        "Pick B",
				Options:       []string{"A", "B", "C"},
				CorrectAnswer: strPtr("B"),
				Points:        5,
			},
			{
				Type:   models.QuestionText,
				Prompt: "Describe a goroutine",
				Points: 10,
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, interview.Questions, 2)
	return interview
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// spyCache is an in-memory cache that records writes and can fail reads.
type spyCache struct {
	mu      sync.Mutex
	entries map[string]bool
	values  map[string][]byte
	getErr  error
}

func (c *spyCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.values == nil {
		c.values = map[string][]byte{}
	}
	c.entries[key] = true
	c.values[key] = raw
	return nil
}

func (c *spyCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *spyCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *spyCache) DeletePattern(context.Context, string) error { return nil }
