package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/interview-service/internal/events"
	"github.com/SAP-F-2025/interview-service/internal/models"
)

// NotificationEventService publishes attempt and feedback lifecycle events.
// Publishing is best effort: failures are logged and never fail the caller.
type NotificationEventService interface {
	// Attempt notifications
	NotifyAttemptStarted(ctx context.Context, attempt *models.InterviewAttempt)
	NotifyAnswerRecorded(ctx context.Context, userID string, answer *models.Answer)
	NotifyAttemptCompleted(ctx context.Context, attempt *models.InterviewAttempt, result *CompletionResult)

	// Feedback notifications
	NotifyFeedbackGenerated(ctx context.Context, feedback *models.Feedback)
	NotifyFeedbackFailed(ctx context.Context, req *CreateFeedbackRequest, reason error)
}

type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewNotificationEventService(eventPublisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ===== ATTEMPT NOTIFICATIONS =====

func (s *notificationEventService) NotifyAttemptStarted(ctx context.Context, attempt *models.InterviewAttempt) {
	s.logger.Debug("Publishing attempt started event", "attempt_id", attempt.ID)

	s.publish(ctx, events.NewAttemptStartedEvent(events.AttemptStartedEvent{
		AttemptID:   attempt.ID,
		InterviewID: attempt.InterviewID,
		UserID:      attempt.UserID,
		StartedAt:   attempt.CreatedAt,
	}))
}

func (s *notificationEventService) NotifyAnswerRecorded(ctx context.Context, userID string, answer *models.Answer) {
	s.logger.Debug("Publishing answer recorded event",
		"attempt_id", answer.AttemptID,
		"question_id", answer.QuestionID)

	s.publish(ctx, events.NewAnswerRecordedEvent(events.AnswerRecordedEvent{
		AttemptID:  answer.AttemptID,
		QuestionID: answer.QuestionID,
		UserID:     userID,
		IsCorrect:  answer.IsCorrect,
		Score:      answer.Score,
		TimeSpent:  answer.TimeSpent,
	}))
}

func (s *notificationEventService) NotifyAttemptCompleted(ctx context.Context, attempt *models.InterviewAttempt, result *CompletionResult) {
	s.logger.Debug("Publishing attempt completed event", "attempt_id", attempt.ID)

	data := events.AttemptCompletedEvent{
		AttemptID:        attempt.ID,
		InterviewID:      attempt.InterviewID,
		UserID:           attempt.UserID,
		QuizScore:        result.QuizScore,
		TotalScore:       result.TotalScore,
		MaxPossibleScore: result.MaxPossibleScore,
		TotalTime:        result.TotalTime,
	}
	if result.CompletedAt != nil {
		data.CompletedAt = *result.CompletedAt
	}
	s.publish(ctx, events.NewAttemptCompletedEvent(data))
}

// ===== FEEDBACK NOTIFICATIONS =====

func (s *notificationEventService) NotifyFeedbackGenerated(ctx context.Context, feedback *models.Feedback) {
	s.logger.Debug("Publishing feedback generated event", "feedback_id", feedback.ID)

	s.publish(ctx, events.NewFeedbackGeneratedEvent(events.FeedbackGeneratedEvent{
		FeedbackID:  feedback.ID,
		InterviewID: feedback.InterviewID,
		UserID:      feedback.UserID,
		AttemptID:   feedback.AttemptID,
		TotalScore:  feedback.TotalScore,
	}))
}

func (s *notificationEventService) NotifyFeedbackFailed(ctx context.Context, req *CreateFeedbackRequest, reason error) {
	s.logger.Debug("Publishing feedback failed event", "interview_id", req.InterviewID)

	s.publish(ctx, events.NewFeedbackFailedEvent(events.FeedbackFailedEvent{
		InterviewID: req.InterviewID,
		UserID:      req.UserID,
		AttemptID:   req.AttemptID,
		Reason:      reason.Error(),
	}))
}

func (s *notificationEventService) publish(ctx context.Context, event *events.Event) {
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}
