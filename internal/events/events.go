package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType names an attempt lifecycle event
type EventType string

const (
	EventAttemptStarted   EventType = "attempt.started"
	EventAnswerRecorded   EventType = "attempt.answer_recorded"
	EventAttemptCompleted EventType = "attempt.completed"

	EventFeedbackGenerated EventType = "feedback.generated"
	EventFeedbackFailed    EventType = "feedback.failed"
)

const (
	eventSource  = "interview-service"
	eventVersion = "1.0"
)

// Event is the envelope for every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type AttemptStartedEvent struct {
	AttemptID   string    `json:"attempt_id"`
	InterviewID string    `json:"interview_id"`
	UserID      string    `json:"user_id"`
	StartedAt   time.Time `json:"started_at"`
}

type AnswerRecordedEvent struct {
	AttemptID  string `json:"attempt_id"`
	QuestionID string `json:"question_id"`
	UserID     string `json:"user_id"`
	IsCorrect  *bool  `json:"is_correct"`
	Score      int    `json:"score"`
	TimeSpent  int    `json:"time_spent"`
}

type AttemptCompletedEvent struct {
	AttemptID        string    `json:"attempt_id"`
	InterviewID      string    `json:"interview_id"`
	UserID           string    `json:"user_id"`
	QuizScore        int       `json:"quiz_score"`
	TotalScore       int       `json:"total_score"`
	MaxPossibleScore int       `json:"max_possible_score"`
	TotalTime        int       `json:"total_time"`
	CompletedAt      time.Time `json:"completed_at"`
}

type FeedbackGeneratedEvent struct {
	FeedbackID  string  `json:"feedback_id"`
	InterviewID string  `json:"interview_id"`
	UserID      string  `json:"user_id"`
	AttemptID   *string `json:"attempt_id,omitempty"`
	TotalScore  int     `json:"total_score"`
}

type FeedbackFailedEvent struct {
	InterviewID string  `json:"interview_id"`
	UserID      string  `json:"user_id"`
	AttemptID   *string `json:"attempt_id,omitempty"`
	Reason      string  `json:"reason"`
}

// Event factory functions

func NewAttemptStartedEvent(data AttemptStartedEvent) *Event {
	return newEvent(EventAttemptStarted, data, map[string]interface{}{
		"attempt_id": data.AttemptID,
	})
}

func NewAnswerRecordedEvent(data AnswerRecordedEvent) *Event {
	return newEvent(EventAnswerRecorded, data, map[string]interface{}{
		"attempt_id": data.AttemptID,
	})
}

func NewAttemptCompletedEvent(data AttemptCompletedEvent) *Event {
	return newEvent(EventAttemptCompleted, data, map[string]interface{}{
		"attempt_id": data.AttemptID,
	})
}

func NewFeedbackGeneratedEvent(data FeedbackGeneratedEvent) *Event {
	return newEvent(EventFeedbackGenerated, data, map[string]interface{}{
		"interview_id": data.InterviewID,
	})
}

func NewFeedbackFailedEvent(data FeedbackFailedEvent) *Event {
	return newEvent(EventFeedbackFailed, data, map[string]interface{}{
		"interview_id": data.InterviewID,
	})
}

func newEvent(eventType EventType, data interface{}, metadata map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
		Metadata:  metadata,
	}
}
