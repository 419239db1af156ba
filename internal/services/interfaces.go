package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
)

// AttemptService is the attempt store: it owns the attempt lifecycle from
// creation to completion.
type AttemptService interface {
	CreateAttempt(ctx context.Context, req *StartAttemptRequest, userID string) (*models.InterviewAttempt, error)
	GetQuestions(ctx context.Context, interviewID string) ([]models.Question, error)
	RecordAnswer(ctx context.Context, req *SubmitAnswerRequest, userID string) (*AnswerResult, error)
	UpdateProgress(ctx context.Context, req *UpdateProgressRequest, userID string) error
	CompleteAttempt(ctx context.Context, req *CompleteAttemptRequest, userID string) (*CompletionResult, error)

	GetAttempt(ctx context.Context, attemptID, userID string) (*models.InterviewAttempt, error)
	ListUserAttempts(ctx context.Context, userID string, filters repositories.AttemptFilters) (*AttemptListResponse, error)
}

type FeedbackService interface {
	CreateFeedback(ctx context.Context, req *CreateFeedbackRequest) (*models.Feedback, error)
	GenerateForAttempt(ctx context.Context, attemptID, userID string) (*models.Feedback, error)
	GetLatestFeedback(ctx context.Context, interviewID, userID string) (*models.Feedback, error)
}

// InterviewService is the read side of the interview catalog. CreateInterview
// exists for seeding only.
type InterviewService interface {
	CreateInterview(ctx context.Context, req *CreateInterviewRequest) (*models.Interview, error)
	GetInterview(ctx context.Context, interviewID string) (*models.Interview, error)
	ListLatestInterviews(ctx context.Context, limit int) ([]*models.Interview, error)
	ListCompletedInterviews(ctx context.Context, userID string, limit int) ([]*models.Interview, error)
}

type ExportService interface {
	// ExportAttemptResults writes one xlsx row per attempt of the interview.
	ExportAttemptResults(ctx context.Context, interviewID string, w io.Writer) error
}
