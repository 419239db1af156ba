package repositories

import (
	"context"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetLatest(ctx context.Context, interviewID, userID string) (*models.Feedback, error)
	GetLatestByAttempt(ctx context.Context, attemptID string) (*models.Feedback, error)
}
