package repositories

import (
	"context"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

type InterviewRepository interface {
	// Create stores the interview together with its questions.
	Create(ctx context.Context, interview *models.Interview) error
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	List(ctx context.Context, filters InterviewFilters) ([]*models.Interview, error)
	// ListCompletedByUser returns distinct interviews the user has completed
	// at least one attempt of, newest first.
	ListCompletedByUser(ctx context.Context, userID string, limit int) ([]*models.Interview, error)
}
