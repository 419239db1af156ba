package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/cache"
	"github.com/SAP-F-2025/interview-service/internal/metrics"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"github.com/SAP-F-2025/interview-service/internal/scoring"
	"github.com/SAP-F-2025/interview-service/internal/validator"
	"github.com/jonboulle/clockwork"
)

type AttemptServiceConfig struct {
	QuestionsTTL time.Duration
}

type attemptService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	notifier  NotificationEventService
	metrics   *metrics.Metrics
	clock     clockwork.Clock
	logger    *slog.Logger
	opLog     *ServiceLogger
	validator *validator.Validator
	config    AttemptServiceConfig
}

func NewAttemptService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	notifier NotificationEventService,
	m *metrics.Metrics,
	clock clockwork.Clock,
	logger *slog.Logger,
	validator *validator.Validator,
	config AttemptServiceConfig,
) AttemptService {
	return &attemptService{
		repo:      repo,
		cache:     cacheService,
		notifier:  notifier,
		metrics:   m,
		clock:     clock,
		logger:    logger,
		opLog:     NewServiceLogger(logger, LogConfig{Service: "interview-service", Component: "attempts"}),
		validator: validator,
		config:    config,
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

func (s *attemptService) CreateAttempt(ctx context.Context, req *StartAttemptRequest, userID string) (attempt *models.InterviewAttempt, err error) {
	op := s.opLog.WithOperation(ctx, "create_attempt", userID)
	defer func() { op.LogResult(req.InterviewID, "interview", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Interview().GetByID(ctx, req.InterviewID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}

	attempt = &models.InterviewAttempt{
		InterviewID:          req.InterviewID,
		UserID:               userID,
		Status:               models.AttemptStatusInProgress,
		CurrentQuestionIndex: 0,
	}
	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	s.metrics.AttemptsStarted.Inc()
	s.notifier.NotifyAttemptStarted(ctx, attempt)

	s.logger.Info("Interview attempt started",
		"attempt_id", attempt.ID,
		"interview_id", attempt.InterviewID,
		"user_id", userID)

	return attempt, nil
}

func (s *attemptService) GetQuestions(ctx context.Context, interviewID string) ([]models.Question, error) {
	key := cache.QuestionsKey(interviewID)

	var cached []models.Question
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.Warn("Question cache read failed", "interview_id", interviewID, "error", err)
	}

	questions, err := s.repo.Question().GetByInterview(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	if !validator.ContiguousPositions(questions) {
		s.logger.Error("Interview questions are not contiguous", "interview_id", interviewID, "count", len(questions))
		return nil, ErrQuestionOrderCorrupt
	}

	if len(questions) > 0 {
		if err := s.cache.Set(ctx, key, questions, s.config.QuestionsTTL); err != nil {
			s.logger.Warn("Question cache write failed", "interview_id", interviewID, "error", err)
		}
	}
	return questions, nil
}

func (s *attemptService) RecordAnswer(ctx context.Context, req *SubmitAnswerRequest, userID string) (result *AnswerResult, err error) {
	op := s.opLog.WithOperation(ctx, "record_answer", userID)
	defer func() { op.LogResult(req.AttemptID, "attempt", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	attempt, err := s.getOwnedAttempt(ctx, req.AttemptID, userID, "answer")
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted() {
		return nil, ErrAttemptNotActive
	}

	question, err := s.repo.Question().GetByID(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question.InterviewID != attempt.InterviewID {
		return nil, ErrQuestionNotFound
	}

	outcome := scoring.GradeAnswer(question, req.UserAnswer)
	answer := &models.Answer{
		AttemptID:  attempt.ID,
		QuestionID: question.ID,
		UserAnswer: req.UserAnswer,
		IsCorrect:  outcome.IsCorrect,
		Score:      outcome.Score,
		TimeSpent:  req.TimeSpent,
	}

	if err := s.repo.Answer().Create(ctx, answer); err != nil {
		if !repositories.IsDuplicateError(err) {
			return nil, fmt.Errorf("failed to save answer: %w", err)
		}
		return s.existingAnswer(ctx, attempt.ID, question.ID)
	}

	s.metrics.AnswersRecorded.WithLabelValues(metrics.AnswerOutcome(answer.IsCorrect)).Inc()
	s.notifier.NotifyAnswerRecorded(ctx, userID, answer)

	return &AnswerResult{
		AnswerID:   answer.ID,
		IsCorrect:  answer.IsCorrect,
		Score:      answer.Score,
		UserAnswer: answer.UserAnswer,
	}, nil
}

func (s *attemptService) UpdateProgress(ctx context.Context, req *UpdateProgressRequest, userID string) (err error) {
	op := s.opLog.WithOperation(ctx, "update_progress", userID)
	defer func() {
		if err != nil {
			s.metrics.ProgressFailures.Inc()
		}
		op.LogResult(req.AttemptID, "attempt", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return err
	}

	attempt, err := s.getOwnedAttempt(ctx, req.AttemptID, userID, "update_progress")
	if err != nil {
		return err
	}

	count, err := s.repo.Question().CountByInterview(ctx, attempt.InterviewID)
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if req.CurrentQuestionIndex > count {
		return fmt.Errorf("%w: index %d, %d questions", ErrProgressOutOfRange, req.CurrentQuestionIndex, count)
	}

	applied, err := s.repo.Attempt().UpdateProgress(ctx, attempt.ID, req.CurrentQuestionIndex, req.TotalTime)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if !applied {
		s.logger.Debug("Progress update skipped",
			"attempt_id", attempt.ID,
			"requested_index", req.CurrentQuestionIndex,
			"current_index", attempt.CurrentQuestionIndex,
			"status", attempt.Status)
	}
	return nil
}

func (s *attemptService) CompleteAttempt(ctx context.Context, req *CompleteAttemptRequest, userID string) (result *CompletionResult, err error) {
	op := s.opLog.WithOperation(ctx, "complete_attempt", userID)
	defer func() { op.LogResult(req.AttemptID, "attempt", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	attempt, err := s.getOwnedAttempt(ctx, req.AttemptID, userID, "complete")
	if err != nil {
		return nil, err
	}

	aggregate, err := s.aggregate(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}

	if attempt.IsCompleted() {
		return alreadyCompleted(attempt, aggregate), nil
	}

	completedAt := s.clock.Now()
	applied, err := s.repo.Attempt().CompleteAttempt(ctx, attempt.ID, repositories.Completion{
		QuizScore:   aggregate.Percentage,
		TotalTime:   req.TotalTime,
		CompletedAt: completedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete attempt: %w", err)
	}
	if !applied {
		// Lost a race with another completion; report what was stored.
		stored, err := s.repo.Attempt().GetByID(ctx, attempt.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload attempt: %w", err)
		}
		return alreadyCompleted(stored, aggregate), nil
	}

	result = &CompletionResult{
		AttemptID:        attempt.ID,
		Status:           models.AttemptStatusCompleted,
		QuizScore:        aggregate.Percentage,
		TotalScore:       aggregate.TotalScore,
		MaxPossibleScore: aggregate.MaxPossibleScore,
		TotalTime:        req.TotalTime,
		CompletedAt:      &completedAt,
	}

	s.metrics.AttemptsCompleted.Inc()
	s.metrics.QuizScores.Observe(float64(result.QuizScore))
	s.notifier.NotifyAttemptCompleted(ctx, attempt, result)

	s.logger.Info("Interview attempt completed",
		"attempt_id", attempt.ID,
		"quiz_score", result.QuizScore,
		"total_score", result.TotalScore,
		"max_possible_score", result.MaxPossibleScore)

	return result, nil
}

// ===== QUERIES =====

func (s *attemptService) GetAttempt(ctx context.Context, attemptID, userID string) (*models.InterviewAttempt, error) {
	attempt, err := s.repo.Attempt().GetByIDWithAnswers(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.UserID != userID {
		return nil, NewPermissionError(userID, attemptID, "attempt", "view", "not owned by user")
	}
	hideCorrectAnswers(attempt)
	return attempt, nil
}

func (s *attemptService) ListUserAttempts(ctx context.Context, userID string, filters repositories.AttemptFilters) (*AttemptListResponse, error) {
	filters.UserID = userID
	filters.Limit = repositories.NormalizedLimit(filters.Limit)
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.Status != "" {
		if err := s.validator.Validate(struct {
			Status models.AttemptStatus `json:"status" validate:"attempt_status"`
		}{filters.Status}); err != nil {
			return nil, err
		}
	}

	attempts, total, err := s.repo.Attempt().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return &AttemptListResponse{
		Attempts: attempts,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}, nil
}
