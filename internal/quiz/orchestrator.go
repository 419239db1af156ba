// Package quiz runs one candidate through an interview: it opens the
// attempt, presents each question with a countdown, records answers,
// completes the attempt and asks for feedback.
package quiz

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"github.com/jonboulle/clockwork"
)

const DefaultTimeLimit = 300 * time.Second

// Store is the part of the attempt store the orchestrator drives.
// services.AttemptService satisfies it.
type Store interface {
	CreateAttempt(ctx context.Context, req *services.StartAttemptRequest, userID string) (*models.InterviewAttempt, error)
	GetQuestions(ctx context.Context, interviewID string) ([]models.Question, error)
	RecordAnswer(ctx context.Context, req *services.SubmitAnswerRequest, userID string) (*services.AnswerResult, error)
	UpdateProgress(ctx context.Context, req *services.UpdateProgressRequest, userID string) error
	CompleteAttempt(ctx context.Context, req *services.CompleteAttemptRequest, userID string) (*services.CompletionResult, error)
}

type FeedbackCreator interface {
	CreateFeedback(ctx context.Context, req *services.CreateFeedbackRequest) (*models.Feedback, error)
}

// View renders the session. Calls are made outside the orchestrator's lock
// and may come from the timer goroutine.
type View interface {
	ShowQuestion(card *QuestionCard, number, total int)
	ShowNoQuestions()
	ShowError(err error)
	NavigateHome()
	NavigateToFeedback(interviewID string)
}

type State int

const (
	StateLoading State = iota
	StatePresenting
	StateSubmitting
	StateCompleting
	StateCompleted
	StateNoQuestions
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePresenting:
		return "presenting"
	case StateSubmitting:
		return "submitting"
	case StateCompleting:
		return "completing"
	case StateCompleted:
		return "completed"
	case StateNoQuestions:
		return "no_questions"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

type Option func(*Orchestrator)

func WithClock(clock clockwork.Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithTimeLimit sets the per-question countdown. Zero disables it.
func WithTimeLimit(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeLimit = d }
}

// WithTimerContext is the context used for submissions made by an expired
// countdown.
func WithTimerContext(ctx context.Context) Option {
	return func(o *Orchestrator) { o.timerCtx = ctx }
}

// Orchestrator is a single-session controller. It is safe for concurrent
// use; a submission that arrives while another is in flight is dropped.
type Orchestrator struct {
	store     Store
	feedback  FeedbackCreator
	view      View
	clock     clockwork.Clock
	logger    *slog.Logger
	timeLimit time.Duration
	timerCtx  context.Context

	mu          sync.Mutex
	started     bool
	state       State
	index       int
	card        *QuestionCard
	interviewID string
	userID      string
	attemptID   string
	startedAt   time.Time
	questions   []models.Question
	answers     []models.Answer
	result      *services.CompletionResult

	progress sync.WaitGroup
}

func New(store Store, fb FeedbackCreator, view View, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:     store,
		feedback:  fb,
		view:      view,
		clock:     clockwork.NewRealClock(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeLimit: DefaultTimeLimit,
		timerCtx:  context.Background(),
		state:     StateLoading,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start opens a new attempt and presents the first question.
func (o *Orchestrator) Start(ctx context.Context, interviewID, userID string) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.started = true
	o.interviewID = interviewID
	o.userID = userID
	o.mu.Unlock()

	attempt, err := o.store.CreateAttempt(ctx, &services.StartAttemptRequest{InterviewID: interviewID}, userID)
	if err != nil {
		o.logger.Error("Failed to create attempt",
			"operation", "create_attempt",
			"interview_id", interviewID,
			"user_id", userID,
			"error", err)
		o.abort()
		return &AttemptCreationError{Op: "create_attempt", InterviewID: interviewID, Err: err}
	}

	o.mu.Lock()
	o.attemptID = attempt.ID
	o.mu.Unlock()

	questions, err := o.store.GetQuestions(ctx, interviewID)
	if err != nil {
		o.logger.Error("Failed to load questions",
			"operation", "get_questions",
			"interview_id", interviewID,
			"attempt_id", attempt.ID,
			"error", err)
		o.abort()
		return &AttemptCreationError{Op: "get_questions", InterviewID: interviewID, Err: err}
	}

	if len(questions) == 0 {
		o.mu.Lock()
		o.state = StateNoQuestions
		o.mu.Unlock()

		o.logger.Info("Interview has no questions", "interview_id", interviewID, "attempt_id", attempt.ID)
		o.view.ShowNoQuestions()
		return nil
	}

	o.mu.Lock()
	o.questions = questions
	o.startedAt = o.clock.Now()
	o.mu.Unlock()

	o.present(0)
	return nil
}

// Submit records answer for the presented question and moves on.
func (o *Orchestrator) Submit(ctx context.Context, answer string, elapsed int) error {
	o.mu.Lock()
	if o.state != StatePresenting {
		o.mu.Unlock()
		return ErrSubmissionInFlight
	}
	idx := o.index
	question := o.questions[idx]
	card := o.card
	o.card = nil
	o.state = StateSubmitting
	attemptID, userID := o.attemptID, o.userID
	o.mu.Unlock()

	if card != nil {
		card.Dispose()
	}

	res, err := o.store.RecordAnswer(ctx, &services.SubmitAnswerRequest{
		AttemptID:  attemptID,
		QuestionID: question.ID,
		UserAnswer: answer,
		TimeSpent:  elapsed,
	}, userID)
	if err != nil {
		o.logger.Error("Failed to record answer",
			"operation", "record_answer",
			"attempt_id", attemptID,
			"question_id", question.ID,
			"question_index", idx,
			"error", err)

		subErr := &SubmissionError{AttemptID: attemptID, QuestionID: question.ID, QuestionIndex: idx, Err: err}
		o.view.ShowError(subErr)
		o.present(idx)
		return subErr
	}
	recorded := answer
	if res.Duplicate {
		o.logger.Warn("Answer was already recorded",
			"attempt_id", attemptID,
			"question_id", question.ID,
			"answer_id", res.AnswerID)
		// The transcript follows what the store kept.
		recorded = res.UserAnswer
	}

	o.mu.Lock()
	o.answers = append(o.answers, models.Answer{
		ID:         res.AnswerID,
		AttemptID:  attemptID,
		QuestionID: question.ID,
		UserAnswer: recorded,
		IsCorrect:  res.IsCorrect,
		Score:      res.Score,
		TimeSpent:  elapsed,
	})
	next := idx + 1
	last := next >= len(o.questions)
	o.mu.Unlock()

	o.dispatchProgress(attemptID, userID, next)

	if !last {
		o.present(next)
		return nil
	}
	return o.complete(ctx)
}

// Skip submits an empty answer for the current question. The first
// question cannot be skipped.
func (o *Orchestrator) Skip(ctx context.Context) error {
	o.mu.Lock()
	state, idx := o.state, o.index
	o.mu.Unlock()

	if state != StatePresenting {
		return ErrSubmissionInFlight
	}
	if idx == 0 {
		return ErrSkipNotAllowed
	}
	return o.Submit(ctx, "", 0)
}

// Wait blocks until every dispatched progress update has finished.
func (o *Orchestrator) Wait() {
	o.progress.Wait()
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Index is the position of the question currently presented or submitted.
func (o *Orchestrator) Index() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.index
}

func (o *Orchestrator) AttemptID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attemptID
}

func (o *Orchestrator) Card() *QuestionCard {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.card
}

// Result is the completion result, nil until the attempt is completed.
func (o *Orchestrator) Result() *services.CompletionResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Transcript is the interviewer/candidate exchange recorded so far.
func (o *Orchestrator) Transcript() []feedback.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return feedback.BuildTranscript(o.questions, o.answers)
}

func (o *Orchestrator) present(idx int) {
	o.mu.Lock()
	question := o.questions[idx]
	total := len(o.questions)
	o.mu.Unlock()

	card := NewQuestionCard(question, o.clock, o.timeLimit, o.onCardSubmit)

	o.mu.Lock()
	if o.state == StateAborted {
		o.mu.Unlock()
		card.Dispose()
		return
	}
	if old := o.card; old != nil {
		old.Dispose()
	}
	o.index = idx
	o.card = card
	o.state = StatePresenting
	o.mu.Unlock()

	o.view.ShowQuestion(card, idx+1, total)
}

func (o *Orchestrator) onCardSubmit(sub Submission) error {
	ctx := context.Background()
	if sub.Expired {
		ctx = o.timerCtx
		o.logger.Info("Question timed out",
			"attempt_id", o.AttemptID(),
			"question_index", o.Index(),
			"time_spent", sub.TimeSpent)
	}
	return o.Submit(ctx, sub.Answer, sub.TimeSpent)
}

func (o *Orchestrator) dispatchProgress(attemptID, userID string, index int) {
	o.mu.Lock()
	elapsed := int(o.clock.Since(o.startedAt) / time.Second)
	o.mu.Unlock()

	o.progress.Add(1)
	go func() {
		defer o.progress.Done()

		ctx := context.WithoutCancel(o.timerCtx)
		err := o.store.UpdateProgress(ctx, &services.UpdateProgressRequest{
			AttemptID:            attemptID,
			CurrentQuestionIndex: index,
			TotalTime:            &elapsed,
		}, userID)
		if err != nil {
			o.logger.Warn("Failed to update progress",
				"operation", "update_progress",
				"attempt_id", attemptID,
				"index", index,
				"error", err)
		}
	}()
}

func (o *Orchestrator) complete(ctx context.Context) error {
	o.mu.Lock()
	o.state = StateCompleting
	attemptID, userID, interviewID := o.attemptID, o.userID, o.interviewID
	totalTime := int(o.clock.Since(o.startedAt) / time.Second)
	o.mu.Unlock()

	// Progress must land before the attempt leaves in-progress.
	o.progress.Wait()

	result, err := o.store.CompleteAttempt(ctx, &services.CompleteAttemptRequest{
		AttemptID: attemptID,
		TotalTime: totalTime,
	}, userID)
	if err != nil {
		o.logger.Error("Failed to complete attempt",
			"operation", "complete_attempt",
			"attempt_id", attemptID,
			"error", err)
		o.abort()
		return &CompletionError{AttemptID: attemptID, Err: err}
	}

	o.mu.Lock()
	o.result = result
	transcript := feedback.BuildTranscript(o.questions, o.answers)
	o.mu.Unlock()

	o.logger.Info("Attempt completed",
		"attempt_id", attemptID,
		"quiz_score", result.QuizScore,
		"total_time", totalTime)

	if o.feedback != nil {
		_, err := o.feedback.CreateFeedback(ctx, &services.CreateFeedbackRequest{
			InterviewID: interviewID,
			UserID:      userID,
			AttemptID:   &attemptID,
			Transcript:  transcript,
		})
		if err != nil {
			o.logger.Warn("Feedback was not generated",
				"operation", "create_feedback",
				"attempt_id", attemptID,
				"interview_id", interviewID,
				"error", err)
		}
	}

	o.mu.Lock()
	o.state = StateCompleted
	o.mu.Unlock()

	o.view.NavigateToFeedback(interviewID)
	return nil
}

func (o *Orchestrator) abort() {
	o.mu.Lock()
	o.state = StateAborted
	card := o.card
	o.card = nil
	o.mu.Unlock()

	if card != nil {
		card.Dispose()
	}
	o.view.NavigateHome()
}
