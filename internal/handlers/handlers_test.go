package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/auth"
	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/metrics"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories/memory"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"github.com/SAP-F-2025/interview-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router    *gin.Engine
	interview *models.Interview
}

func newTestEnv(t *testing.T, gen feedback.Generator) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.FromSlogLogger(slogger)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	manager := services.NewServiceManager(services.Dependencies{
		Repo:      memory.New(clock),
		Generator: gen,
		Metrics:   m,
		Clock:     clock,
		Logger:    slogger,
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

	router := NewRouter(NewHandlerManager(manager, logger), auth.NewHeaderProvider("admin"), m, registry, logger)
	return &testEnv{router: router, interview: interview}
}

func (e *testEnv) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(auth.UserIDHeader, user)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) startAttempt(t *testing.T, user string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/attempts", user, gin.H{"interview_id": e.interview.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var attempt models.InterviewAttempt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &attempt))
	return attempt.ID
}

func (e *testEnv) answer(t *testing.T, user, attemptID, questionID, answer string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/api/v1/attempts/"+attemptID+"/answers", user, gin.H{
		"question_id": questionID,
		"user_answer": answer,
		"time_spent":  4,
	})
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"interview-service"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `interview_http_requests_total{route="/health",status="200"} 1`)
}

func TestAPIRequiresUser(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/interviews", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"User not authenticated"}`, w.Body.String())
}

func TestAttemptFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	const user = "candidate-1"

	w := env.do(t, http.MethodGet, "/api/v1/interviews/"+env.interview.ID+"/questions", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "correct_answer")
	questions := decode[[]QuestionView](t, w)
	require.Len(t, questions, 2)
	assert.Equal(t, "Pick B", questions[0].Question)
	assert.Equal(t, []string{"A", "B", "C"}, questions[0].Options)

	attemptID := env.startAttempt(t, user)

	w = env.answer(t, user, attemptID, questions[0].ID, "B")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[services.AnswerResult](t, w)
	require.NotNil(t, first.IsCorrect)
	assert.True(t, *first.IsCorrect)
	assert.Equal(t, 5, first.Score)
	assert.False(t, first.Duplicate)

	w = env.answer(t, user, attemptID, questions[0].ID, "A")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dup := decode[services.AnswerResult](t, w)
	assert.True(t, dup.Duplicate)
	assert.Equal(t, first.AnswerID, dup.AnswerID)
	assert.Equal(t, 5, dup.Score)

	w = env.do(t, http.MethodPut, "/api/v1/attempts/"+attemptID+"/progress", user, gin.H{"current_question_index": 1})
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = env.answer(t, user, attemptID, questions[1].ID, "A lightweight thread")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	text := decode[services.AnswerResult](t, w)
	assert.Nil(t, text.IsCorrect)
	assert.Equal(t, 0, text.Score)

	w = env.do(t, http.MethodPost, "/api/v1/attempts/"+attemptID+"/complete", user, gin.H{"total_time": 20})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[services.CompletionResult](t, w)
	assert.Equal(t, models.AttemptStatusCompleted, result.Status)
	assert.Equal(t, 33, result.QuizScore)
	assert.Equal(t, 20, result.TotalTime)
	assert.False(t, result.AlreadyCompleted)

	w = env.do(t, http.MethodPost, "/api/v1/attempts/"+attemptID+"/complete", user, gin.H{"total_time": 99})
	require.Equal(t, http.StatusOK, w.Code)
	again := decode[services.CompletionResult](t, w)
	assert.True(t, again.AlreadyCompleted)
	assert.Equal(t, 20, again.TotalTime)

	w = env.do(t, http.MethodGet, "/api/v1/attempts/"+attemptID, user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	attempt := decode[models.InterviewAttempt](t, w)
	require.NotNil(t, attempt.QuizScore)
	assert.Equal(t, 33, *attempt.QuizScore)
	assert.Len(t, attempt.Answers, 2)

	w = env.answer(t, user, attemptID, questions[1].ID, "late")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/users/me/interviews", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), env.interview.ID)
}

func TestLatestFeedbackEmpty(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/interviews/"+env.interview.ID+"/feedback", "candidate-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":null}`, w.Body.String())
}

func TestGenerateFeedbackUnavailable(t *testing.T) {
	env := newTestEnv(t, feedback.NewUnavailableGenerator())
	const user = "candidate-1"

	attemptID := env.startAttempt(t, user)
	w := env.do(t, http.MethodPost, "/api/v1/attempts/"+attemptID+"/complete", user, gin.H{"total_time": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/attempts/"+attemptID+"/feedback", user, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/interviews/"+env.interview.ID+"/feedback", user, nil)
	assert.JSONEq(t, `{"data":null}`, w.Body.String())
}

func TestGenerateFeedbackBeforeCompletion(t *testing.T) {
	env := newTestEnv(t, nil)
	attemptID := env.startAttempt(t, "candidate-1")

	w := env.do(t, http.MethodPost, "/api/v1/attempts/"+attemptID+"/feedback", "candidate-1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAttemptErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	attemptID := env.startAttempt(t, "candidate-1")

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   interface{}
		status int
	}{
		{"foreign attempt", http.MethodGet, "/api/v1/attempts/" + attemptID, "someone-else", nil, http.StatusForbidden},
		{"unknown attempt", http.MethodGet, "/api/v1/attempts/" + models.NewID(), "candidate-1", nil, http.StatusNotFound},
		{"unknown interview", http.MethodPost, "/api/v1/attempts", "candidate-1", gin.H{"interview_id": models.NewID()}, http.StatusNotFound},
		{"unknown interview questions", http.MethodGet, "/api/v1/interviews/" + models.NewID() + "/questions", "candidate-1", nil, http.StatusNotFound},
		{"progress out of range", http.MethodPut, "/api/v1/attempts/" + attemptID + "/progress", "candidate-1", gin.H{"current_question_index": 3}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/v1/attempts", "candidate-1", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestExportResults(t *testing.T) {
	env := newTestEnv(t, nil)
	path := "/api/v1/interviews/" + env.interview.ID + "/results/export"

	w := env.do(t, http.MethodGet, path, "candidate-1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, path, "admin", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "interview-"+env.interview.ID+"-results.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}
