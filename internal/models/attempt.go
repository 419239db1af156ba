package models

import (
	"time"

	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "in-progress"
	AttemptStatusCompleted  AttemptStatus = "completed"
)

type InterviewAttempt struct {
	ID                   string        `json:"id" gorm:"primaryKey;type:uuid"`
	InterviewID          string        `json:"interview_id" gorm:"type:uuid;not null;index"`
	UserID               string        `json:"user_id" gorm:"not null;size:255;index"`
	Status               AttemptStatus `json:"status" gorm:"not null;size:20;default:'in-progress';index"`
	CurrentQuestionIndex int           `json:"current_question_index" gorm:"not null;default:0"`

	// Set only at completion
	TotalTime *int `json:"total_time"`
	QuizScore *int `json:"quiz_score"`

	// Elapsed seconds reported by the last progress checkpoint
	CheckpointTime *int `json:"checkpoint_time,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Interview *Interview `json:"interview,omitempty" gorm:"foreignKey:InterviewID"`
	Answers   []Answer   `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE"`
}

func (InterviewAttempt) TableName() string {
	return "interview_attempts"
}

func (a *InterviewAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}

func (a *InterviewAttempt) IsCompleted() bool {
	return a.Status == AttemptStatusCompleted
}

type Answer struct {
	ID         string `json:"id" gorm:"primaryKey;type:uuid"`
	AttemptID  string `json:"attempt_id" gorm:"type:uuid;not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID string `json:"question_id" gorm:"type:uuid;not null;uniqueIndex:idx_answer_attempt_question"`
	UserAnswer string `json:"user_answer" gorm:"type:text"`

	// nil when the question cannot be auto-graded
	IsCorrect *bool     `json:"is_correct"`
	Score     int       `json:"score" gorm:"not null;default:0"`
	TimeSpent int       `json:"time_spent" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`

	Question *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (Answer) TableName() string {
	return "answers"
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}
