package repositories

import (
	"context"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.InterviewAttempt) error
	GetByID(ctx context.Context, id string) (*models.InterviewAttempt, error)
	GetByIDWithAnswers(ctx context.Context, id string) (*models.InterviewAttempt, error)
	List(ctx context.Context, filters AttemptFilters) ([]*models.InterviewAttempt, int64, error)

	// UpdateProgress moves the cursor forward on an in-progress attempt.
	// It reports false when nothing changed because the attempt is completed
	// or already further along.
	UpdateProgress(ctx context.Context, id string, currentQuestionIndex int, checkpointTime *int) (bool, error)

	// CompleteAttempt flips an in-progress attempt to completed. It reports
	// false when the attempt was not in progress.
	CompleteAttempt(ctx context.Context, id string, completion Completion) (bool, error)
}

type AnswerRepository interface {
	// Create returns ErrDuplicate when the attempt already answered the question.
	Create(ctx context.Context, answer *models.Answer) error
	GetByAttemptAndQuestion(ctx context.Context, attemptID, questionID string) (*models.Answer, error)
	// GetByAttempt returns answers with their questions preloaded, oldest first.
	GetByAttempt(ctx context.Context, attemptID string) ([]models.Answer, error)
	CountByAttempt(ctx context.Context, attemptID string) (int, error)
}
