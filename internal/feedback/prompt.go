package feedback

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

const SystemPrompt = "You are a professional interviewer analyzing a quiz-based interview. " +
	"Your task is to evaluate the candidate based on structured categories."

var categoryGuidance = map[string]string{
	models.CategoryCommunication:  "Clarity, articulation, structured responses.",
	models.CategoryTechnical:      "Understanding of key concepts for the role.",
	models.CategoryProblemSolving: "Ability to analyze problems and propose solutions.",
	models.CategoryRoleFit:        "Alignment with company values and job role.",
	models.CategoryConfidence:     "Confidence in responses, engagement, and clarity.",
}

// BuildPrompt wraps the formatted transcript in the scoring instructions.
func BuildPrompt(transcript []Message) string {
	var b strings.Builder
	b.WriteString("You are an AI interviewer analyzing a quiz-based interview. ")
	b.WriteString("Evaluate the candidate thoroughly and do not be lenient. ")
	b.WriteString("If there are mistakes or areas for improvement, point them out.\n\n")
	b.WriteString("Interview Transcript (Questions and Answers):\n")
	b.WriteString(FormatTranscript(transcript))
	b.WriteString("\nScore the candidate from 0 to 100 in the following areas. ")
	b.WriteString("Do not add categories other than the ones provided:\n")
	for _, name := range models.FeedbackCategories {
		fmt.Fprintf(&b, "- **%s**: %s\n", name, categoryGuidance[name])
	}
	return b.String()
}
