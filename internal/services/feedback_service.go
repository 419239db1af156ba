package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/metrics"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"github.com/SAP-F-2025/interview-service/internal/validator"
)

// Feedback result labels
const (
	feedbackGenerated = "generated"
	feedbackFailed    = "failed"
)

type feedbackService struct {
	repo      repositories.Repository
	generator feedback.Generator
	notifier  NotificationEventService
	metrics   *metrics.Metrics
	logger    *slog.Logger
	opLog     *ServiceLogger
	validator *validator.Validator
}

func NewFeedbackService(
	repo repositories.Repository,
	generator feedback.Generator,
	notifier NotificationEventService,
	m *metrics.Metrics,
	logger *slog.Logger,
	validator *validator.Validator,
) FeedbackService {
	return &feedbackService{
		repo:      repo,
		generator: generator,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		opLog:     NewServiceLogger(logger, LogConfig{Service: "interview-service", Component: "feedback"}),
		validator: validator,
	}
}

func (s *feedbackService) CreateFeedback(ctx context.Context, req *CreateFeedbackRequest) (fb *models.Feedback, err error) {
	op := s.opLog.WithOperation(ctx, "create_feedback", req.UserID)
	defer func() { op.LogResult(req.InterviewID, "interview", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	attemptID, err := s.linkableAttempt(ctx, req)
	if err != nil {
		return nil, err
	}

	assessment, err := feedback.Assess(ctx, s.generator, req.Transcript)
	if err != nil {
		s.metrics.FeedbackResults.WithLabelValues(feedbackFailed).Inc()
		s.notifier.NotifyFeedbackFailed(ctx, req, err)
		return nil, fmt.Errorf("%w: %w", ErrFeedbackGenerationFailed, err)
	}

	fb = &models.Feedback{
		InterviewID:         req.InterviewID,
		UserID:              req.UserID,
		AttemptID:           attemptID,
		TotalScore:          assessment.TotalScore,
		CategoryScores:      assessment.CategoryScores,
		Strengths:           assessment.Strengths,
		AreasForImprovement: assessment.AreasForImprovement,
		FinalAssessment:     assessment.FinalAssessment,
	}
	if err := s.repo.Feedback().Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	s.metrics.FeedbackResults.WithLabelValues(feedbackGenerated).Inc()
	s.notifier.NotifyFeedbackGenerated(ctx, fb)

	s.logger.Info("Feedback generated",
		"feedback_id", fb.ID,
		"interview_id", fb.InterviewID,
		"attempt_linked", attemptID != nil,
		"total_score", fb.TotalScore)

	return fb, nil
}

func (s *feedbackService) GenerateForAttempt(ctx context.Context, attemptID, userID string) (*models.Feedback, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.UserID != userID {
		return nil, NewPermissionError(userID, attemptID, "attempt", "generate_feedback", "not owned by user")
	}
	if !attempt.IsCompleted() {
		return nil, ErrAttemptNotCompleted
	}

	questions, err := s.repo.Question().GetByInterview(ctx, attempt.InterviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	answers, err := s.repo.Answer().GetByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	return s.CreateFeedback(ctx, &CreateFeedbackRequest{
		InterviewID: attempt.InterviewID,
		UserID:      userID,
		AttemptID:   &attempt.ID,
		Transcript:  feedback.BuildTranscript(questions, answers),
	})
}

func (s *feedbackService) GetLatestFeedback(ctx context.Context, interviewID, userID string) (*models.Feedback, error) {
	fb, err := s.repo.Feedback().GetLatest(ctx, interviewID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return fb, nil
}

// linkableAttempt returns the attempt id to store on the feedback row: the
// requested one when it exists and belongs to the user, otherwise nil.
func (s *feedbackService) linkableAttempt(ctx context.Context, req *CreateFeedbackRequest) (*string, error) {
	if req.AttemptID == nil || *req.AttemptID == "" {
		return nil, nil
	}

	attempt, err := s.repo.Attempt().GetByID(ctx, *req.AttemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Warn("Feedback attempt not found, storing unlinked", "attempt_id", *req.AttemptID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.UserID != req.UserID {
		s.logger.Warn("Feedback attempt owned by another user, storing unlinked",
			"attempt_id", attempt.ID,
			"user_id", req.UserID)
		return nil, nil
	}
	id := attempt.ID
	return &id, nil
}
