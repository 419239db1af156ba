package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/interview-service/internal/metrics"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"github.com/SAP-F-2025/interview-service/internal/scoring"
)

// ===== HELPER FUNCTIONS =====

func (s *attemptService) getOwnedAttempt(ctx context.Context, attemptID, userID, action string) (*models.InterviewAttempt, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.UserID != userID {
		return nil, NewPermissionError(userID, attemptID, "attempt", action, "not owned by user")
	}
	return attempt, nil
}

// existingAnswer reports the stored grading for a question answered earlier.
func (s *attemptService) existingAnswer(ctx context.Context, attemptID, questionID string) (*AnswerResult, error) {
	existing, err := s.repo.Answer().GetByAttemptAndQuestion(ctx, attemptID, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing answer: %w", err)
	}

	s.metrics.AnswersRecorded.WithLabelValues(metrics.OutcomeDuplicate).Inc()
	s.logger.Info("Duplicate answer ignored",
		"attempt_id", attemptID,
		"question_id", questionID,
		"answer_id", existing.ID)

	return &AnswerResult{
		AnswerID:   existing.ID,
		IsCorrect:  existing.IsCorrect,
		Score:      existing.Score,
		UserAnswer: existing.UserAnswer,
		Duplicate:  true,
	}, nil
}

// aggregate scores the attempt from its persisted answers.
func (s *attemptService) aggregate(ctx context.Context, attemptID string) (scoring.Result, error) {
	answers, err := s.repo.Answer().GetByAttempt(ctx, attemptID)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("failed to get answers: %w", err)
	}
	return scoring.Aggregate(scoring.FromAnswers(answers)), nil
}

// alreadyCompleted reports a finished attempt. The stored quiz score wins over
// the recomputed aggregate.
func alreadyCompleted(attempt *models.InterviewAttempt, aggregate scoring.Result) *CompletionResult {
	result := &CompletionResult{
		AttemptID:        attempt.ID,
		Status:           attempt.Status,
		QuizScore:        aggregate.Percentage,
		TotalScore:       aggregate.TotalScore,
		MaxPossibleScore: aggregate.MaxPossibleScore,
		CompletedAt:      attempt.CompletedAt,
		AlreadyCompleted: true,
	}
	if attempt.QuizScore != nil {
		result.QuizScore = *attempt.QuizScore
	}
	if attempt.TotalTime != nil {
		result.TotalTime = *attempt.TotalTime
	}
	return result
}

// hideCorrectAnswers strips grading keys from an attempt that is still open.
func hideCorrectAnswers(attempt *models.InterviewAttempt) {
	if attempt.IsCompleted() {
		return
	}
	for i := range attempt.Answers {
		if q := attempt.Answers[i].Question; q != nil && q.CorrectAnswer != nil {
			stripped := *q
			stripped.CorrectAnswer = nil
			attempt.Answers[i].Question = &stripped
		}
	}
	if attempt.Interview != nil && len(attempt.Interview.Questions) > 0 {
		iv := *attempt.Interview
		iv.Questions = make([]models.Question, len(attempt.Interview.Questions))
		for i, q := range attempt.Interview.Questions {
			q.CorrectAnswer = nil
			iv.Questions[i] = q
		}
		attempt.Interview = &iv
	}
}
