package feedback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is one line of an interview transcript.
type Message struct {
	Role    Role   `json:"role" validate:"required,oneof=assistant user"`
	Content string `json:"content"`
}

// BuildTranscript lays out the answered questions as one block of
// interviewer prompts followed by one block of candidate answers, both in
// question position order. Questions without an answer are left out.
func BuildTranscript(questions []models.Question, answers []models.Answer) []Message {
	byID := make(map[string]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	type entry struct {
		position int
		prompt   string
		answer   string
	}
	entries := make([]entry, 0, len(answers))
	seen := make(map[string]struct{}, len(answers))
	for i, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			continue
		}
		seen[a.QuestionID] = struct{}{}

		q := byID[a.QuestionID]
		if q == nil {
			q = a.Question
		}
		e := entry{position: len(questions) + i, prompt: fmt.Sprintf("Question %d", i+1), answer: a.UserAnswer}
		if q != nil {
			e.position = q.Position
			e.prompt = q.Prompt
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].position < entries[j].position })

	out := make([]Message, 0, 2*len(entries))
	for _, e := range entries {
		out = append(out, Message{Role: RoleAssistant, Content: e.prompt})
	}
	for _, e := range entries {
		out = append(out, Message{Role: RoleUser, Content: e.answer})
	}
	return out
}

// FormatTranscript renders messages as "- role: content" lines.
func FormatTranscript(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "- %s: %s\n", m.Role, m.Content)
	}
	return b.String()
}
