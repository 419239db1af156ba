package postgres

import (
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	interview repositories.InterviewRepository
	question  repositories.QuestionRepository
	attempt   repositories.AttemptRepository
	answer    repositories.AnswerRepository
	feedback  repositories.FeedbackRepository
}

// NewRepository wires the gorm-backed stores over a single handle.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		interview: NewInterviewPostgreSQL(db),
		question:  NewQuestionPostgreSQL(db),
		attempt:   NewAttemptPostgreSQL(db),
		answer:    NewAnswerPostgreSQL(db),
		feedback:  NewFeedbackPostgreSQL(db),
	}
}

func (r *repository) Interview() repositories.InterviewRepository { return r.interview }
func (r *repository) Question() repositories.QuestionRepository   { return r.question }
func (r *repository) Attempt() repositories.AttemptRepository     { return r.attempt }
func (r *repository) Answer() repositories.AnswerRepository       { return r.answer }
func (r *repository) Feedback() repositories.FeedbackRepository   { return r.feedback }
