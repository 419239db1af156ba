package feedback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/sashabaranov/go-openai/jsonschema"
)

var ErrInvalidAssessment = errors.New("invalid assessment")

const AssessmentSchemaName = "interview_feedback"

// Assessment is the structured result requested from the generator.
type Assessment struct {
	TotalScore          int                    `json:"totalScore"`
	CategoryScores      []models.CategoryScore `json:"categoryScores"`
	Strengths           []string               `json:"strengths"`
	AreasForImprovement []string               `json:"areasForImprovement"`
	FinalAssessment     string                 `json:"finalAssessment"`
}

// Validate checks score ranges and the category set, and rewrites
// CategoryScores into canonical category order.
func (a *Assessment) Validate() error {
	if a.TotalScore < 0 || a.TotalScore > 100 {
		return fmt.Errorf("%w: total score %d out of range", ErrInvalidAssessment, a.TotalScore)
	}
	if strings.TrimSpace(a.FinalAssessment) == "" {
		return fmt.Errorf("%w: final assessment is empty", ErrInvalidAssessment)
	}
	if len(a.CategoryScores) != len(models.FeedbackCategories) {
		return fmt.Errorf("%w: expected %d categories, got %d",
			ErrInvalidAssessment, len(models.FeedbackCategories), len(a.CategoryScores))
	}

	byName := make(map[string]models.CategoryScore, len(a.CategoryScores))
	for _, c := range a.CategoryScores {
		if c.Score < 0 || c.Score > 100 {
			return fmt.Errorf("%w: category %q score %d out of range", ErrInvalidAssessment, c.Name, c.Score)
		}
		if _, dup := byName[c.Name]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidAssessment, c.Name)
		}
		byName[c.Name] = c
	}

	ordered := make([]models.CategoryScore, 0, len(models.FeedbackCategories))
	for _, name := range models.FeedbackCategories {
		c, ok := byName[name]
		if !ok {
			return fmt.Errorf("%w: missing category %q", ErrInvalidAssessment, name)
		}
		ordered = append(ordered, c)
	}
	a.CategoryScores = ordered

	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.AreasForImprovement == nil {
		a.AreasForImprovement = []string{}
	}
	return nil
}

// AssessmentSchema is the JSON schema sent with every feedback request.
func AssessmentSchema() *jsonschema.Definition {
	categoryNames := make([]string, len(models.FeedbackCategories))
	copy(categoryNames, models.FeedbackCategories)

	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"totalScore": {
				Type:        jsonschema.Integer,
				Description: "Overall score from 0 to 100",
			},
			"categoryScores": {
				Type:        jsonschema.Array,
				Description: "Exactly one entry per category",
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"name":    {Type: jsonschema.String, Enum: categoryNames},
						"score":   {Type: jsonschema.Integer, Description: "Score from 0 to 100"},
						"comment": {Type: jsonschema.String},
					},
					Required: []string{"name", "score", "comment"},
				},
			},
			"strengths": {
				Type:  jsonschema.Array,
				Items: &jsonschema.Definition{Type: jsonschema.String},
			},
			"areasForImprovement": {
				Type:  jsonschema.Array,
				Items: &jsonschema.Definition{Type: jsonschema.String},
			},
			"finalAssessment": {Type: jsonschema.String},
		},
		Required: []string{"totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"},
	}
}
