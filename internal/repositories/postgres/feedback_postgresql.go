package postgres

import (
	"context"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type FeedbackPostgreSQL struct {
	db *gorm.DB
}

func NewFeedbackPostgreSQL(db *gorm.DB) repositories.FeedbackRepository {
	return &FeedbackPostgreSQL{db: db}
}

func (f FeedbackPostgreSQL) Create(ctx context.Context, feedback *models.Feedback) error {
	return translateError(f.db.WithContext(ctx).Create(feedback).Error)
}

func (f FeedbackPostgreSQL) GetLatest(ctx context.Context, interviewID, userID string) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := f.db.WithContext(ctx).
		Where("interview_id = ? AND user_id = ?", interviewID, userID).
		Order("created_at DESC").
		First(&feedback).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (f FeedbackPostgreSQL) GetLatestByAttempt(ctx context.Context, attemptID string) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := f.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Order("created_at DESC").
		First(&feedback).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}
