package quiz

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/events"
	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/metrics"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories/memory"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const candidate = "candidate-1"

type harness struct {
	clock     *clockwork.FakeClock
	store     *memory.Store
	services  services.ServiceManager
	interview *models.Interview
}

func newHarness(t *testing.T, gen feedback.Generator) *harness {
	t.Helper()

	logger := discard()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	store := memory.New(clock)
	manager := services.NewServiceManager(services.Dependencies{
		Repo:           store,
		EventPublisher: events.NewMockEventPublisher(logger),
		Generator:      gen,
		Metrics:        metrics.New(prometheus.NewRegistry()),
		Clock:          clock,
		Logger:         logger,
		Attempts:       services.AttemptServiceConfig{QuestionsTTL: time.Minute},
	})

	correct := "B"
	interview, err := manager.Interview().CreateInterview(context.Background(), &services.CreateInterviewRequest{
		Role:  "Backend Engineer",
		Level: "Junior",
		Type:  "Technical",
		Questions: []services.CreateQuestionRequest{
			{Type: models.QuestionMultipleChoice, Prompt: "Pick B", Options: []string{"A", "B", "C"}, CorrectAnswer: &correct, Points: 5},
			{Type: models.QuestionText, Prompt: "Describe a goroutine", Points: 10},
		},
	})
	require.NoError(t, err)

	return &harness{clock: clock, store: store, services: manager, interview: interview}
}

func (h *harness) orchestrator(store Store, view View, opts ...Option) *Orchestrator {
	opts = append([]Option{WithClock(h.clock), WithLogger(discard()), WithTimeLimit(30 * time.Second)}, opts...)
	return New(store, h.services.Feedback(), view, opts...)
}

func (h *harness) answers(t *testing.T, attemptID string) []models.Answer {
	t.Helper()
	answers, err := h.store.Answer().GetByAttempt(context.Background(), attemptID)
	require.NoError(t, err)
	return answers
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingView remembers everything the orchestrator asked it to show.
type recordingView struct {
	mu         sync.Mutex
	cards      []*QuestionCard
	numbers    []int
	errs       []error
	noQuestion bool
	home       int
	feedbackOf string
}

func (v *recordingView) ShowQuestion(card *QuestionCard, number, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards = append(v.cards, card)
	v.numbers = append(v.numbers, number)
}

func (v *recordingView) ShowNoQuestions() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noQuestion = true
}

func (v *recordingView) ShowError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errs = append(v.errs, err)
}

func (v *recordingView) NavigateHome() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.home++
}

func (v *recordingView) NavigateToFeedback(interviewID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.feedbackOf = interviewID
}

func (v *recordingView) lastCard() *QuestionCard {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.cards) == 0 {
		return nil
	}
	return v.cards[len(v.cards)-1]
}

func (v *recordingView) shown() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]int(nil), v.numbers...)
}

// faultyStore wraps a real attempt store and injects failures.
type faultyStore struct {
	services.AttemptService

	mu            sync.Mutex
	questionsErr  error
	noQuestions   bool
	recordErrs    []error
	completeErr   error
	progressErr   error
	progressCalls int
	recordStarted chan struct{}
	recordGate    chan struct{}
}

func (s *faultyStore) GetQuestions(ctx context.Context, interviewID string) ([]models.Question, error) {
	if s.questionsErr != nil {
		return nil, s.questionsErr
	}
	if s.noQuestions {
		return []models.Question{}, nil
	}
	return s.AttemptService.GetQuestions(ctx, interviewID)
}

func (s *faultyStore) RecordAnswer(ctx context.Context, req *services.SubmitAnswerRequest, userID string) (*services.AnswerResult, error) {
	if s.recordStarted != nil {
		s.recordStarted <- struct{}{}
	}
	if s.recordGate != nil {
		<-s.recordGate
	}

	s.mu.Lock()
	var err error
	if len(s.recordErrs) > 0 {
		err, s.recordErrs = s.recordErrs[0], s.recordErrs[1:]
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.AttemptService.RecordAnswer(ctx, req, userID)
}

func (s *faultyStore) CompleteAttempt(ctx context.Context, req *services.CompleteAttemptRequest, userID string) (*services.CompletionResult, error) {
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	return s.AttemptService.CompleteAttempt(ctx, req, userID)
}

func (s *faultyStore) UpdateProgress(ctx context.Context, req *services.UpdateProgressRequest, userID string) error {
	s.mu.Lock()
	s.progressCalls++
	s.mu.Unlock()
	if s.progressErr != nil {
		return s.progressErr
	}
	return s.AttemptService.UpdateProgress(ctx, req, userID)
}

func (s *faultyStore) progressAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressCalls
}
