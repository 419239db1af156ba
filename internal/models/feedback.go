package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Feedback category names, in canonical order.
const (
	CategoryCommunication  = "Communication Skills"
	CategoryTechnical      = "Technical Knowledge"
	CategoryProblemSolving = "Problem-Solving"
	CategoryRoleFit        = "Cultural & Role Fit"
	CategoryConfidence     = "Confidence & Clarity"
)

var FeedbackCategories = []string{
	CategoryCommunication,
	CategoryTechnical,
	CategoryProblemSolving,
	CategoryRoleFit,
	CategoryConfidence,
}

type CategoryScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Feedback rows are append-only; readers take the most recent one.
type Feedback struct {
	ID                  string                             `json:"id" gorm:"primaryKey;type:uuid"`
	InterviewID         string                             `json:"interview_id" gorm:"type:uuid;not null;index:idx_feedback_interview_user"`
	UserID              string                             `json:"user_id" gorm:"not null;size:255;index:idx_feedback_interview_user"`
	AttemptID           *string                            `json:"attempt_id" gorm:"type:uuid;index"`
	TotalScore          int                                `json:"total_score" gorm:"not null"`
	CategoryScores      datatypes.JSONSlice[CategoryScore] `json:"category_scores" gorm:"type:jsonb"`
	Strengths           datatypes.JSONSlice[string]        `json:"strengths" gorm:"type:jsonb"`
	AreasForImprovement datatypes.JSONSlice[string]        `json:"areas_for_improvement" gorm:"type:jsonb"`
	FinalAssessment     string                             `json:"final_assessment" gorm:"type:text"`
	CreatedAt           time.Time                          `json:"created_at" gorm:"index"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}
