package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrSubmissionInFlight = errors.New("no question is awaiting an answer")
	ErrSkipNotAllowed     = errors.New("the first question cannot be skipped")
	ErrAlreadyStarted     = errors.New("orchestrator already started")

	ErrCardSubmitted     = errors.New("question card already submitted")
	ErrNoOptionSelected  = errors.New("select an option before submitting")
	ErrUnknownOption     = errors.New("option is not one of the question's choices")
	ErrNotMultipleChoice = errors.New("question does not take an option")
)

// AttemptCreationError is returned by Start when the attempt could not be
// opened or its questions could not be loaded.
type AttemptCreationError struct {
	Op          string
	InterviewID string
	Err         error
}

func (e *AttemptCreationError) Error() string {
	return fmt.Sprintf("start interview %s: %s: %v", e.InterviewID, e.Op, e.Err)
}

func (e *AttemptCreationError) Unwrap() error { return e.Err }

// SubmissionError means the answer was not recorded. The same question is
// presented again.
type SubmissionError struct {
	AttemptID     string
	QuestionID    string
	QuestionIndex int
	Err           error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("record answer for question %d of attempt %s: %v", e.QuestionIndex, e.AttemptID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

type CompletionError struct {
	AttemptID string
	Err       error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("complete attempt %s: %v", e.AttemptID, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }
