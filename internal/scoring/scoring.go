// Package scoring grades submitted answers and aggregates them into a quiz
// percentage. Everything here is pure and safe for concurrent use.
package scoring

import (
	"math"
	"strings"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

// Outcome is the grading result of a single answer.
type Outcome struct {
	IsCorrect *bool `json:"is_correct"`
	Score     int   `json:"score"`
}

// Gradable reports whether the question carries a usable answer reference.
func Gradable(q *models.Question) bool {
	return q.Type == models.QuestionMultipleChoice && q.CorrectAnswer != nil
}

// strategy grades one question kind.
type strategy func(q *models.Question, answer string) Outcome

var strategies = map[models.QuestionType]strategy{
	models.QuestionMultipleChoice: gradeMultipleChoice,
}

// GradeAnswer grades answer against q. Kinds without a strategy, and
// questions without a correct answer, come back ungraded with a zero score.
func GradeAnswer(q *models.Question, answer string) Outcome {
	grade, ok := strategies[q.Type]
	if !ok || q.CorrectAnswer == nil {
		return Outcome{IsCorrect: nil, Score: 0}
	}
	return grade(q, answer)
}

func gradeMultipleChoice(q *models.Question, answer string) Outcome {
	correct := Normalize(answer) == Normalize(*q.CorrectAnswer)
	score := 0
	if correct {
		score = EffectivePoints(q)
	}
	return Outcome{IsCorrect: &correct, Score: score}
}

// Normalize trims surrounding whitespace and lower-cases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EffectivePoints is the question's point value, defaulting to 1.
func EffectivePoints(q *models.Question) int {
	if q == nil || q.Points <= 0 {
		return 1
	}
	return q.Points
}

// ScoredAnswer pairs a persisted score with the question it answers.
type ScoredAnswer struct {
	QuestionID string
	Score      int
	Points     int
}

// Result is the aggregate over an attempt's answered questions.
type Result struct {
	TotalScore       int `json:"total_score"`
	MaxPossibleScore int `json:"max_possible_score"`
	Percentage       int `json:"percentage"`
}

// Aggregate sums scores over the answered set. Only the first answer for a
// question counts, and scores are clamped to [0, points].
func Aggregate(answers []ScoredAnswer) Result {
	seen := make(map[string]struct{}, len(answers))
	var res Result
	for _, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			continue
		}
		seen[a.QuestionID] = struct{}{}

		points := a.Points
		if points <= 0 {
			points = 1
		}
		score := a.Score
		if score < 0 {
			score = 0
		}
		if score > points {
			score = points
		}
		res.TotalScore += score
		res.MaxPossibleScore += points
	}
	res.Percentage = Percentage(res.TotalScore, res.MaxPossibleScore)
	return res
}

// Percentage returns round(100*score/max), or 0 when max is zero.
func Percentage(score, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(max)))
}

// FromAnswers builds the aggregate input from answers with preloaded
// questions, in the order given.
func FromAnswers(answers []models.Answer) []ScoredAnswer {
	out := make([]ScoredAnswer, 0, len(answers))
	for i := range answers {
		a := &answers[i]
		out = append(out, ScoredAnswer{
			QuestionID: a.QuestionID,
			Score:      a.Score,
			Points:     EffectivePoints(a.Question),
		})
	}
	return out
}
