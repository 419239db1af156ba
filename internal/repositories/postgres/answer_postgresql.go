package postgres

import (
	"context"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (a AnswerPostgreSQL) Create(ctx context.Context, answer *models.Answer) error {
	return translateError(a.db.WithContext(ctx).Create(answer).Error)
}

func (a AnswerPostgreSQL) GetByAttemptAndQuestion(ctx context.Context, attemptID, questionID string) (*models.Answer, error) {
	var answer models.Answer
	if err := a.db.WithContext(ctx).
		Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
		Order("created_at ASC").
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (a AnswerPostgreSQL) GetByAttempt(ctx context.Context, attemptID string) ([]models.Answer, error) {
	var answers []models.Answer
	if err := a.db.WithContext(ctx).
		Preload("Question").
		Where("attempt_id = ?", attemptID).
		Order("created_at ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a AnswerPostgreSQL) CountByAttempt(ctx context.Context, attemptID string) (int, error) {
	var count int64
	if err := a.db.WithContext(ctx).Model(&models.Answer{}).
		Where("attempt_id = ?", attemptID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
