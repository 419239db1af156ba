package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionText           QuestionType = "text"
)

// Interview is a finalized, read-only sequence of questions.
type Interview struct {
	ID          string                      `json:"id" gorm:"primaryKey;type:uuid"`
	Role        string                      `json:"role" gorm:"not null;size:200"`
	Level       string                      `json:"level" gorm:"not null;size:50"`
	Type        string                      `json:"type" gorm:"not null;size:50"`
	TechStack   datatypes.JSONSlice[string] `json:"techstack" gorm:"type:jsonb"`
	Description *string                     `json:"description" gorm:"type:text"`
	Finalized   bool                        `json:"finalized" gorm:"default:false;index"`
	CreatedAt   time.Time                   `json:"created_at" gorm:"index"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:InterviewID;constraint:OnDelete:CASCADE"`
}

func (Interview) TableName() string {
	return "interviews"
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID()
	}
	return nil
}

type Question struct {
	ID            string                      `json:"id" gorm:"primaryKey;type:uuid"`
	InterviewID   string                      `json:"interview_id" gorm:"type:uuid;not null;uniqueIndex:idx_question_interview_position"`
	Type          QuestionType                `json:"type" gorm:"not null;size:20"`
	Prompt        string                      `json:"question" gorm:"column:question;type:text;not null"`
	Options       datatypes.JSONSlice[string] `json:"options,omitempty" gorm:"type:jsonb"`
	CorrectAnswer *string                     `json:"correct_answer,omitempty" gorm:"type:text"`
	Points        int                         `json:"points" gorm:"default:1"`
	Explanation   *string                     `json:"explanation,omitempty" gorm:"type:text"`
	Position      int                         `json:"position" gorm:"column:position;not null;uniqueIndex:idx_question_interview_position"`
	CreatedAt     time.Time                   `json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = NewID()
	}
	return nil
}

// HasOption reports whether option is one of the question's choices.
func (q *Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

func NewID() string {
	return uuid.NewString()
}
