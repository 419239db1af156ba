package postgres

import (
	"context"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type InterviewPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewInterviewPostgreSQL(db *gorm.DB) repositories.InterviewRepository {
	return &InterviewPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// Create inserts the interview and its questions in one transaction
func (i *InterviewPostgreSQL) Create(ctx context.Context, interview *models.Interview) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translateError(tx.Create(interview).Error)
	})
}

func (i *InterviewPostgreSQL) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	var interview models.Interview
	if err := i.db.WithContext(ctx).Where("id = ?", id).First(&interview).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

func (i *InterviewPostgreSQL) List(ctx context.Context, filters repositories.InterviewFilters) ([]*models.Interview, error) {
	var interviews []*models.Interview

	query := i.db.WithContext(ctx).Model(&models.Interview{})
	if filters.Finalized != nil {
		query = query.Where("finalized = ?", *filters.Finalized)
	}
	if filters.Role != "" {
		query = query.Where("role ILIKE ?", "%"+filters.Role+"%")
	}
	if filters.Level != "" {
		query = query.Where("level = ?", filters.Level)
	}
	query = i.helpers.ApplyPaginationAndSort(query, "created_at", "desc", filters.Limit, filters.Offset)

	if err := query.Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

func (i *InterviewPostgreSQL) ListCompletedByUser(ctx context.Context, userID string, limit int) ([]*models.Interview, error) {
	var interviews []*models.Interview

	completed := i.db.WithContext(ctx).Model(&models.InterviewAttempt{}).
		Select("interview_id").
		Where("user_id = ? AND status = ?", userID, models.AttemptStatusCompleted)

	if err := i.db.WithContext(ctx).
		Where("id IN (?)", completed).
		Order("created_at DESC").
		Limit(repositories.NormalizedLimit(limit)).
		Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}
