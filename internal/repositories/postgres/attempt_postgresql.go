package postgres

import (
	"context"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (a AttemptPostgreSQL) Create(ctx context.Context, attempt *models.InterviewAttempt) error {
	return translateError(a.db.WithContext(ctx).Create(attempt).Error)
}

func (a AttemptPostgreSQL) GetByID(ctx context.Context, id string) (*models.InterviewAttempt, error) {
	var attempt models.InterviewAttempt
	if err := a.db.WithContext(ctx).Where("id = ?", id).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a AttemptPostgreSQL) GetByIDWithAnswers(ctx context.Context, id string) (*models.InterviewAttempt, error) {
	var attempt models.InterviewAttempt
	if err := a.db.WithContext(ctx).
		Preload("Interview").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.created_at ASC")
		}).
		Preload("Answers.Question").
		Where("id = ?", id).
		First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a AttemptPostgreSQL) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.InterviewAttempt, int64, error) {
	var attempts []*models.InterviewAttempt
	var total int64

	// apply filter first
	query := a.db.WithContext(ctx).Model(&models.InterviewAttempt{})
	query = a.applyFiltersAttempt(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset,
		"created_at", "completed_at", "quiz_score")

	if err := query.Find(&attempts).Error; err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}

func (a AttemptPostgreSQL) UpdateProgress(ctx context.Context, id string, currentQuestionIndex int, checkpointTime *int) (bool, error) {
	updates := map[string]interface{}{
		"current_question_index": currentQuestionIndex,
	}
	if checkpointTime != nil {
		updates["checkpoint_time"] = *checkpointTime
	}

	result := a.db.WithContext(ctx).Model(&models.InterviewAttempt{}).
		Where("id = ? AND status = ? AND current_question_index <= ?", id, models.AttemptStatusInProgress, currentQuestionIndex).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (a AttemptPostgreSQL) CompleteAttempt(ctx context.Context, id string, completion repositories.Completion) (bool, error) {
	result := a.db.WithContext(ctx).Model(&models.InterviewAttempt{}).
		Where("id = ? AND status = ?", id, models.AttemptStatusInProgress).
		Updates(map[string]interface{}{
			"status":       models.AttemptStatusCompleted,
			"quiz_score":   completion.QuizScore,
			"total_time":   completion.TotalTime,
			"completed_at": completion.CompletedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// applyFiltersAttempt narrows a query by the non-empty filter fields
func (a AttemptPostgreSQL) applyFiltersAttempt(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.InterviewID != "" {
		query = query.Where("interview_id = ?", filters.InterviewID)
	}
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
