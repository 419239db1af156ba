package quiz

import (
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/jonboulle/clockwork"
)

// Submission is what a card emits: the answer text and the whole seconds
// spent on the question.
type Submission struct {
	Answer    string
	TimeSpent int
	Expired   bool
}

// QuestionCard collects one answer for one question. It emits exactly once,
// on Submit or when its countdown runs out, whichever happens first.
type QuestionCard struct {
	mu        sync.Mutex
	question  models.Question
	clock     clockwork.Clock
	shownAt   time.Time
	countdown *Countdown
	emit      func(Submission) error

	selected  string
	text      string
	submitted bool
}

// NewQuestionCard shows q and starts its countdown. emit is called outside
// the card's lock, from the caller of Submit or from the timer goroutine.
func NewQuestionCard(q models.Question, clock clockwork.Clock, limit time.Duration, emit func(Submission) error) *QuestionCard {
	card := &QuestionCard{
		question: q,
		clock:    clock,
		shownAt:  clock.Now(),
		emit:     emit,
	}
	card.countdown = StartCountdown(clock, limit, card.expire)
	return card
}

func (c *QuestionCard) Question() models.Question {
	return c.question
}

func (c *QuestionCard) IsMultipleChoice() bool {
	return c.question.Type == models.QuestionMultipleChoice
}

func (c *QuestionCard) Select(option string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted {
		return ErrCardSubmitted
	}
	if !c.IsMultipleChoice() {
		return ErrNotMultipleChoice
	}
	if !c.question.HasOption(option) {
		return ErrUnknownOption
	}
	c.selected = option
	return nil
}

func (c *QuestionCard) SetText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted {
		return ErrCardSubmitted
	}
	c.text = text
	return nil
}

// Submit emits the current answer. Multiple-choice cards need a selection;
// text answers are trimmed and may be empty.
func (c *QuestionCard) Submit() error {
	c.mu.Lock()
	if c.submitted {
		c.mu.Unlock()
		return ErrCardSubmitted
	}
	if c.IsMultipleChoice() && c.selected == "" {
		c.mu.Unlock()
		return ErrNoOptionSelected
	}
	sub := c.latchLocked(false)
	c.mu.Unlock()

	c.countdown.Stop()
	return c.send(sub)
}

// Remaining is the time left on the card's countdown.
func (c *QuestionCard) Remaining() time.Duration {
	return c.countdown.Remaining()
}

func (c *QuestionCard) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// Dispose latches the card without emitting and stops its countdown.
// It reports whether the card was still live.
func (c *QuestionCard) Dispose() bool {
	c.mu.Lock()
	live := !c.submitted
	c.submitted = true
	c.mu.Unlock()

	c.countdown.Stop()
	return live
}

func (c *QuestionCard) expire() {
	c.mu.Lock()
	if c.submitted {
		c.mu.Unlock()
		return
	}
	sub := c.latchLocked(true)
	c.mu.Unlock()

	_ = c.send(sub)
}

func (c *QuestionCard) latchLocked(expired bool) Submission {
	c.submitted = true

	answer := strings.TrimSpace(c.text)
	if c.IsMultipleChoice() {
		answer = c.selected
	}
	return Submission{
		Answer:    answer,
		TimeSpent: int(c.clock.Since(c.shownAt) / time.Second),
		Expired:   expired,
	}
}

func (c *QuestionCard) send(sub Submission) error {
	if c.emit == nil {
		return nil
	}
	return c.emit(sub)
}
