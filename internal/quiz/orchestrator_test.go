package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingGenerator() feedback.Generator {
	return feedback.GeneratorFunc(func(_ context.Context, _ feedback.Request, out any) error {
		scores := make([]models.CategoryScore, 0, len(models.FeedbackCategories))
		for _, name := range models.FeedbackCategories {
			scores = append(scores, models.CategoryScore{Name: name, Score: 70, Comment: "ok"})
		}
		*out.(*feedback.Assessment) = feedback.Assessment{
			TotalScore:          70,
			CategoryScores:      scores,
			Strengths:           []string{"concise"},
			AreasForImprovement: []string{"examples"},
			FinalAssessment:     "Solid start.",
		}
		return nil
	})
}

func TestOrchestrator_ScenarioA(t *testing.T) {
	h := newHarness(t, passingGenerator())
	view := &recordingView{}
	o := h.orchestrator(h.services.Attempt(), view)
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))
	assert.Equal(t, StatePresenting, o.State())
	assert.Equal(t, []int{1}, view.shown())

	first := view.lastCard()
	require.NotNil(t, first)
	assert.ErrorIs(t, first.Submit(), ErrNoOptionSelected)
	require.NoError(t, first.Select("B"))
	h.clock.Advance(12 * time.Second)
	require.NoError(t, first.Submit())

	assert.Equal(t, 1, o.Index())
	second := view.lastCard()
	require.NotSame(t, first, second)
	require.NoError(t, second.SetText("  some text "))
	h.clock.Advance(40 * time.Second)
	require.NoError(t, second.Submit())

	o.Wait()
	assert.Equal(t, StateCompleted, o.State())
	assert.Equal(t, h.interview.ID, view.feedbackOf)

	result := o.Result()
	require.NotNil(t, result)
	assert.Equal(t, 33, result.QuizScore)
	assert.Equal(t, 52, result.TotalTime)

	answers := h.answers(t, o.AttemptID())
	require.Len(t, answers, 2)
	assert.Equal(t, 5, answers[0].Score)
	require.NotNil(t, answers[0].IsCorrect)
	assert.True(t, *answers[0].IsCorrect)
	assert.Equal(t, 12, answers[0].TimeSpent)
	assert.Equal(t, "some text", answers[1].UserAnswer)
	assert.Nil(t, answers[1].IsCorrect)
	assert.Equal(t, 0, answers[1].Score)

	attempt, err := h.services.Attempt().GetAttempt(ctx, o.AttemptID(), candidate)
	require.NoError(t, err)
	assert.Equal(t, 2, attempt.CurrentQuestionIndex)
	assert.Equal(t, models.AttemptStatusCompleted, attempt.Status)

	fb, err := h.services.Feedback().GetLatestFeedback(ctx, h.interview.ID, candidate)
	require.NoError(t, err)
	require.NotNil(t, fb.AttemptID)
	assert.Equal(t, o.AttemptID(), *fb.AttemptID)
	assert.Equal(t, 70, fb.TotalScore)
}

func TestOrchestrator_ScenarioBTimeouts(t *testing.T) {
	h := newHarness(t, passingGenerator())
	view := &recordingView{}
	o := h.orchestrator(h.services.Attempt(), view)

	require.NoError(t, o.Start(context.Background(), h.interview.ID, candidate))

	h.clock.Advance(30 * time.Second)
	require.Eventually(t, func() bool {
		return o.Index() == 1 && o.State() == StatePresenting
	}, time.Second, 5*time.Millisecond)

	h.clock.Advance(30 * time.Second)
	require.Eventually(t, func() bool {
		return o.State() == StateCompleted
	}, time.Second, 5*time.Millisecond)
	o.Wait()

	require.NotNil(t, o.Result())
	assert.Equal(t, 0, o.Result().QuizScore)

	answers := h.answers(t, o.AttemptID())
	require.Len(t, answers, 2)
	for _, a := range answers {
		assert.Equal(t, "", a.UserAnswer)
		assert.Equal(t, 0, a.Score)
		assert.Equal(t, 30, a.TimeSpent)
	}
	require.NotNil(t, answers[0].IsCorrect)
	assert.False(t, *answers[0].IsCorrect)
}

func TestOrchestrator_ScenarioCQuestionFetchFails(t *testing.T) {
	h := newHarness(t, nil)
	view := &recordingView{}
	store := &faultyStore{AttemptService: h.services.Attempt(), questionsErr: errors.New("cache and database down")}
	o := h.orchestrator(store, view)

	err := o.Start(context.Background(), h.interview.ID, candidate)

	var creationErr *AttemptCreationError
	require.ErrorAs(t, err, &creationErr)
	assert.Equal(t, "get_questions", creationErr.Op)
	assert.Equal(t, StateAborted, o.State())
	assert.Empty(t, view.shown())
	assert.Equal(t, 1, view.home)
	assert.ErrorIs(t, o.Submit(context.Background(), "B", 1), ErrSubmissionInFlight)

	require.NotEmpty(t, o.AttemptID())
	assert.Empty(t, h.answers(t, o.AttemptID()))
}

func TestOrchestrator_ScenarioDFeedbackFailureStillCompletes(t *testing.T) {
	failing := feedback.GeneratorFunc(func(context.Context, feedback.Request, any) error {
		return errors.New("model unavailable")
	})
	h := newHarness(t, failing)
	view := &recordingView{}
	o := h.orchestrator(h.services.Attempt(), view)
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))
	require.NoError(t, o.Submit(ctx, "B", 3))
	require.NoError(t, o.Submit(ctx, "some text", 4))

	assert.Equal(t, StateCompleted, o.State())
	assert.Equal(t, h.interview.ID, view.feedbackOf)
	require.NotNil(t, o.Result())
	assert.Equal(t, 33, o.Result().QuizScore)

	_, err := h.services.Feedback().GetLatestFeedback(ctx, h.interview.ID, candidate)
	assert.ErrorIs(t, err, services.ErrFeedbackNotFound)
}

func TestOrchestrator_CreateAttemptFailureAborts(t *testing.T) {
	h := newHarness(t, nil)
	view := &recordingView{}
	o := h.orchestrator(h.services.Attempt(), view)

	err := o.Start(context.Background(), "missing-interview", candidate)

	var creationErr *AttemptCreationError
	require.ErrorAs(t, err, &creationErr)
	assert.Equal(t, "create_attempt", creationErr.Op)
	assert.ErrorIs(t, err, services.ErrInterviewNotFound)
	assert.Equal(t, StateAborted, o.State())
	assert.Equal(t, 1, view.home)
	assert.Empty(t, o.AttemptID())
}

func TestOrchestrator_NoQuestions(t *testing.T) {
	h := newHarness(t, nil)
	view := &recordingView{}
	o := h.orchestrator(&faultyStore{AttemptService: h.services.Attempt(), noQuestions: true}, view)

	require.NoError(t, o.Start(context.Background(), h.interview.ID, candidate))

	assert.Equal(t, StateNoQuestions, o.State())
	assert.True(t, view.noQuestion)
	assert.Empty(t, view.shown())
	assert.Zero(t, view.home)
}

func TestOrchestrator_StartTwice(t *testing.T) {
	h := newHarness(t, nil)
	o := h.orchestrator(h.services.Attempt(), &recordingView{})

	require.NoError(t, o.Start(context.Background(), h.interview.ID, candidate))
	assert.ErrorIs(t, o.Start(context.Background(), h.interview.ID, candidate), ErrAlreadyStarted)
}

func TestOrchestrator_SubmissionFailureRepresentsQuestion(t *testing.T) {
	h := newHarness(t, nil)
	view := &recordingView{}
	store := &faultyStore{AttemptService: h.services.Attempt(), recordErrs: []error{errors.New("connection reset")}}
	o := h.orchestrator(store, view)
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))
	first := view.lastCard()
	require.NoError(t, first.Select("B"))

	err := first.Submit()
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, 0, subErr.QuestionIndex)

	assert.Equal(t, StatePresenting, o.State())
	assert.Equal(t, 0, o.Index())
	assert.Equal(t, []int{1, 1}, view.shown())
	require.Len(t, view.errs, 1)

	retry := view.lastCard()
	require.NotSame(t, first, retry)
	assert.ErrorIs(t, first.Select("A"), ErrCardSubmitted)
	require.NoError(t, retry.Select("B"))
	require.NoError(t, retry.Submit())

	assert.Equal(t, 1, o.Index())
	assert.Len(t, h.answers(t, o.AttemptID()), 1)
}

func TestOrchestrator_DropsSubmitWhileInFlight(t *testing.T) {
	h := newHarness(t, nil)
	view := &recordingView{}
	store := &faultyStore{
		AttemptService: h.services.Attempt(),
		recordStarted:  make(chan struct{}, 1),
		recordGate:     make(chan struct{}),
	}
	o := h.orchestrator(store, view)
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))

	done := make(chan error, 1)
	go func() { done <- o.Submit(ctx, "B", 2) }()
	<-store.recordStarted

	assert.Equal(t, StateSubmitting, o.State())
	assert.ErrorIs(t, o.Submit(ctx, "A", 2), ErrSubmissionInFlight)
	assert.ErrorIs(t, o.Skip(ctx), ErrSubmissionInFlight)

	close(store.recordGate)
	require.NoError(t, <-done)

	answers := h.answers(t, o.AttemptID())
	require.Len(t, answers, 1)
	assert.Equal(t, "B", answers[0].UserAnswer)
	assert.Equal(t, 1, o.Index())
}

func TestOrchestrator_Skip(t *testing.T) {
	h := newHarness(t, nil)
	view := &recordingView{}
	o := h.orchestrator(h.services.Attempt(), view)
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))
	assert.ErrorIs(t, o.Skip(ctx), ErrSkipNotAllowed)

	first := view.lastCard()
	require.NoError(t, o.Submit(ctx, "B", 5))
	assert.True(t, first.Submitted())

	second := view.lastCard()
	require.NoError(t, o.Skip(ctx))
	assert.True(t, second.Submitted())
	assert.ErrorIs(t, second.SetText("late"), ErrCardSubmitted)

	assert.Equal(t, StateCompleted, o.State())
	answers := h.answers(t, o.AttemptID())
	require.Len(t, answers, 2)
	assert.Equal(t, "", answers[1].UserAnswer)
	assert.Equal(t, 0, answers[1].TimeSpent)
}

func TestOrchestrator_SupersededCardNeverFires(t *testing.T) {
	h := newHarness(t, nil)
	view := &recordingView{}
	o := h.orchestrator(h.services.Attempt(), view)
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))
	first := view.lastCard()
	h.clock.Advance(10 * time.Second)
	require.NoError(t, o.Submit(ctx, "B", 10))
	assert.Zero(t, first.Remaining())

	// 25s later the first card would have expired; only the second is live.
	h.clock.Advance(25 * time.Second)
	o.Wait()
	assert.Equal(t, StatePresenting, o.State())
	assert.Equal(t, 1, o.Index())
	assert.Len(t, h.answers(t, o.AttemptID()), 1)
	assert.Equal(t, 5*time.Second, view.lastCard().Remaining())
}

func TestOrchestrator_CompletionFailureAborts(t *testing.T) {
	h := newHarness(t, nil)
	view := &recordingView{}
	store := &faultyStore{AttemptService: h.services.Attempt(), completeErr: errors.New("write timeout")}
	o := h.orchestrator(store, view)
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))
	require.NoError(t, o.Submit(ctx, "A", 1))

	err := o.Submit(ctx, "text", 1)
	var complErr *CompletionError
	require.ErrorAs(t, err, &complErr)
	assert.Equal(t, o.AttemptID(), complErr.AttemptID)
	assert.Equal(t, StateAborted, o.State())
	assert.Equal(t, 1, view.home)
	assert.Empty(t, view.feedbackOf)

	attempt, err := h.services.Attempt().GetAttempt(ctx, o.AttemptID(), candidate)
	require.NoError(t, err)
	assert.Equal(t, models.AttemptStatusInProgress, attempt.Status)
	assert.Equal(t, 2, attempt.CurrentQuestionIndex)
}

func TestOrchestrator_Transcript(t *testing.T) {
	h := newHarness(t, nil)
	o := h.orchestrator(h.services.Attempt(), &recordingView{})
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))
	require.NoError(t, o.Submit(ctx, "B", 1))

	assert.Equal(t, []feedback.Message{
		{Role: feedback.RoleAssistant, Content: "Pick B"},
		{Role: feedback.RoleUser, Content: "B"},
	}, o.Transcript())
}

func TestOrchestrator_ProgressFailuresDoNotBlock(t *testing.T) {
	h := newHarness(t, passingGenerator())
	view := &recordingView{}
	store := &faultyStore{AttemptService: h.services.Attempt(), progressErr: errors.New("checkpoint table locked")}
	o := h.orchestrator(store, view)
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))
	require.NoError(t, o.Submit(ctx, "B", 3))
	require.NoError(t, o.Submit(ctx, "goroutines are cheap", 4))
	o.Wait()

	assert.Equal(t, StateCompleted, o.State())
	assert.Empty(t, view.errs)
	assert.Equal(t, 2, store.progressAttempts())
	require.NotNil(t, o.Result())
	assert.Equal(t, 33, o.Result().QuizScore)
	assert.Len(t, h.answers(t, o.AttemptID()), 2)

	attempt, err := h.services.Attempt().GetAttempt(ctx, o.AttemptID(), candidate)
	require.NoError(t, err)
	assert.Equal(t, models.AttemptStatusCompleted, attempt.Status)
}

func TestOrchestrator_DuplicateKeepsStoredAnswerInTranscript(t *testing.T) {
	h := newHarness(t, nil)
	o := h.orchestrator(h.services.Attempt(), &recordingView{})
	ctx := context.Background()

	require.NoError(t, o.Start(ctx, h.interview.ID, candidate))

	// Another client answers the first question before this one does.
	_, err := h.services.Attempt().RecordAnswer(ctx, &services.SubmitAnswerRequest{
		AttemptID:  o.AttemptID(),
		QuestionID: h.interview.Questions[0].ID,
		UserAnswer: "A",
	}, candidate)
	require.NoError(t, err)

	require.NoError(t, o.Submit(ctx, "B", 1))

	assert.Equal(t, []feedback.Message{
		{Role: feedback.RoleAssistant, Content: "Pick B"},
		{Role: feedback.RoleUser, Content: "A"},
	}, o.Transcript())
}
