package models

import "time"

// AttemptResultRow is one line of the results export.
type AttemptResultRow struct {
	AttemptID     string
	UserID        string
	Status        AttemptStatus
	StartedAt     time.Time
	CompletedAt   *time.Time
	QuizScore     *int
	TotalTime     *int
	AnswerCount   int
	FeedbackScore *int
}

// AllModels lists every persisted model, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Interview{},
		&Question{},
		&InterviewAttempt{},
		&Answer{},
		&Feedback{},
	}
}
