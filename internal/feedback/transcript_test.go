package feedback

import (
	"testing"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTranscript_PromptsThenAnswers(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Prompt: "What is a goroutine?", Position: 0},
		{ID: "q2", Prompt: "What is a channel?", Position: 1},
		{ID: "q3", Prompt: "Unanswered", Position: 2},
	}
	// Recorded out of order on purpose.
	answers := []models.Answer{
		{QuestionID: "q2", UserAnswer: "a pipe"},
		{QuestionID: "q1", UserAnswer: "a green thread"},
	}

	got := BuildTranscript(questions, answers)

	require.Len(t, got, 4)
	assert.Equal(t, []Message{
		{Role: RoleAssistant, Content: "What is a goroutine?"},
		{Role: RoleAssistant, Content: "What is a channel?"},
		{Role: RoleUser, Content: "a green thread"},
		{Role: RoleUser, Content: "a pipe"},
	}, got)
}

func TestBuildTranscript_FallsBackToPreloadedQuestionAndPlaceholder(t *testing.T) {
	answers := []models.Answer{
		{QuestionID: "q1", UserAnswer: "yes", Question: &models.Question{ID: "q1", Prompt: "Preloaded?", Position: 0}},
		{QuestionID: "missing", UserAnswer: "no"},
	}

	got := BuildTranscript(nil, answers)

	require.Len(t, got, 4)
	assert.Equal(t, "Preloaded?", got[0].Content)
	assert.Equal(t, "Question 2", got[1].Content)
	assert.Equal(t, "yes", got[2].Content)
	assert.Equal(t, "no", got[3].Content)
}

func TestBuildTranscript_FirstAnswerWins(t *testing.T) {
	questions := []models.Question{{ID: "q1", Prompt: "P", Position: 0}}
	answers := []models.Answer{
		{QuestionID: "q1", UserAnswer: "first"},
		{QuestionID: "q1", UserAnswer: "second"},
	}

	got := BuildTranscript(questions, answers)

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[1].Content)
}

func TestBuildTranscript_Empty(t *testing.T) {
	assert.Empty(t, BuildTranscript(nil, nil))
}

func TestFormatTranscript(t *testing.T) {
	msgs := []Message{
		{Role: RoleAssistant, Content: "Q"},
		{Role: RoleUser, Content: "A"},
	}
	assert.Equal(t, "- assistant: Q\n- user: A\n", FormatTranscript(msgs))
}

func TestBuildPrompt_ListsCategoriesInOrder(t *testing.T) {
	prompt := BuildPrompt([]Message{{Role: RoleUser, Content: "hello"}})

	assert.Contains(t, prompt, "- user: hello\n")
	last := -1
	for _, name := range models.FeedbackCategories {
		idx := indexOf(prompt, "**"+name+"**")
		require.NotEqual(t, -1, idx, name)
		assert.Greater(t, idx, last, name)
		last = idx
	}
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
