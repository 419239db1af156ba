package repositories

import (
	"context"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

type QuestionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Question, error)
	// GetByInterview returns the interview's questions ordered by position.
	GetByInterview(ctx context.Context, interviewID string) ([]models.Question, error)
	CountByInterview(ctx context.Context, interviewID string) (int, error)
}
