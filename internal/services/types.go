package services

import (
	"time"

	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/models"
)

// ===== ATTEMPT REQUESTS =====

type StartAttemptRequest struct {
	InterviewID string `json:"interview_id" validate:"required"`
}

type SubmitAnswerRequest struct {
	AttemptID  string `json:"attempt_id" validate:"required"`
	QuestionID string `json:"question_id" validate:"required"`
	UserAnswer string `json:"user_answer" validate:"max=10000"`
	TimeSpent  int    `json:"time_spent" validate:"gte=0"`
}

type UpdateProgressRequest struct {
	AttemptID            string `json:"attempt_id" validate:"required"`
	CurrentQuestionIndex int    `json:"current_question_index" validate:"gte=0"`
	TotalTime            *int   `json:"total_time,omitempty" validate:"omitempty,gte=0"`
}

type CompleteAttemptRequest struct {
	AttemptID string `json:"attempt_id" validate:"required"`
	TotalTime int    `json:"total_time" validate:"gte=0"`
}

// ===== ATTEMPT RESPONSES =====

type AnswerResult struct {
	AnswerID  string `json:"answer_id"`
	IsCorrect *bool  `json:"is_correct"`
	Score     int    `json:"score"`
	// UserAnswer is the text that was persisted, which differs from the
	// request on a duplicate.
	UserAnswer string `json:"user_answer"`
	// Duplicate is set when the question was already answered; the stored
	// grading is returned and nothing is written.
	Duplicate bool `json:"duplicate"`
}

type CompletionResult struct {
	AttemptID        string               `json:"attempt_id"`
	Status           models.AttemptStatus `json:"status"`
	QuizScore        int                  `json:"quiz_score"`
	TotalScore       int                  `json:"total_score"`
	MaxPossibleScore int                  `json:"max_possible_score"`
	TotalTime        int                  `json:"total_time"`
	CompletedAt      *time.Time           `json:"completed_at"`
	AlreadyCompleted bool                 `json:"already_completed"`
}

type AttemptListResponse struct {
	Attempts []*models.InterviewAttempt `json:"attempts"`
	Total    int64                      `json:"total"`
	Limit    int                        `json:"limit"`
	Offset   int                        `json:"offset"`
}

// ===== FEEDBACK REQUESTS =====

type CreateFeedbackRequest struct {
	InterviewID string             `json:"interview_id" validate:"required"`
	UserID      string             `json:"user_id" validate:"required"`
	AttemptID   *string            `json:"attempt_id,omitempty"`
	Transcript  []feedback.Message `json:"transcript" validate:"dive"`
}

// ===== INTERVIEW REQUESTS =====

type CreateInterviewRequest struct {
	Role        string                  `json:"role" validate:"required,max=200"`
	Level       string                  `json:"level" validate:"required,max=50"`
	Type        string                  `json:"type" validate:"required,max=50"`
	TechStack   []string                `json:"techstack"`
	Description *string                 `json:"description,omitempty"`
	Questions   []CreateQuestionRequest `json:"questions" validate:"dive"`
}

type CreateQuestionRequest struct {
	Type          models.QuestionType `json:"type" validate:"required,question_type"`
	Prompt        string              `json:"question" validate:"required"`
	Options       []string            `json:"options,omitempty"`
	CorrectAnswer *string             `json:"correct_answer,omitempty"`
	Points        int                 `json:"points" validate:"gte=0"`
	Explanation   *string             `json:"explanation,omitempty"`
}
