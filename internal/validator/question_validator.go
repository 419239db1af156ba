package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

// QuestionValidator checks question content against its type.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a single question.
func (v *QuestionValidator) ValidateQuestion(q *models.Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question text is required")
	}
	if q.Points < 0 {
		return fmt.Errorf("question points must not be negative")
	}

	switch q.Type {
	case models.QuestionMultipleChoice:
		return v.validateMultipleChoice(q)
	case models.QuestionText:
		if len(q.Options) > 0 {
			return fmt.Errorf("text questions cannot have options")
		}
		return nil
	default:
		return fmt.Errorf("unsupported question type: %s", q.Type)
	}
}

func (v *QuestionValidator) validateMultipleChoice(q *models.Question) error {
	if len(q.Options) < 2 {
		return fmt.Errorf("multiple choice questions need at least 2 options")
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("options cannot be empty")
		}
		if _, dup := seen[o]; dup {
			return fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = struct{}{}
	}

	if q.CorrectAnswer != nil && !q.HasOption(*q.CorrectAnswer) {
		return fmt.Errorf("correct answer %q is not one of the options", *q.CorrectAnswer)
	}
	return nil
}

// ValidateSequence validates each question and checks that positions run
// 0..n-1 with no gaps or duplicates.
func (v *QuestionValidator) ValidateSequence(questions []models.Question) error {
	seen := make([]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if err := v.ValidateQuestion(q); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
		if q.Position < 0 || q.Position >= len(questions) || seen[q.Position] {
			return fmt.Errorf("question positions must be unique and contiguous from 0, got %d", q.Position)
		}
		seen[q.Position] = true
	}
	return nil
}

// ContiguousPositions reports whether questions, already sorted by
// position, are numbered 0..n-1.
func ContiguousPositions(questions []models.Question) bool {
	for i := range questions {
		if questions[i].Position != i {
			return false
		}
	}
	return true
}
