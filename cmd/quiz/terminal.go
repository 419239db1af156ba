package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/quiz"
)

const skipCommand = ":skip"

// terminalView prints the session to out and remembers the live card so the
// input loop can answer it.
type terminalView struct {
	out io.Writer

	mu          sync.Mutex
	card        *quiz.QuestionCard
	interviewID string
	done        chan struct{}
	once        sync.Once
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{out: out, done: make(chan struct{})}
}

func (v *terminalView) ShowQuestion(card *quiz.QuestionCard, number, total int) {
	v.mu.Lock()
	v.card = card
	v.mu.Unlock()

	q := card.Question()
	fmt.Fprintf(v.out, "\nQuestion %d of %d (%s left)\n%s\n", number, total, card.Remaining().Round(time.Second), q.Prompt)
	if card.IsMultipleChoice() {
		for i, opt := range q.Options {
			fmt.Fprintf(v.out, "  %d) %s\n", i+1, opt)
		}
		fmt.Fprintln(v.out, "Choose an option number.")
	} else {
		fmt.Fprintln(v.out, "Type your answer on one line.")
	}
	if number > 1 {
		fmt.Fprintf(v.out, "(%s to skip)\n", skipCommand)
	}
	fmt.Fprint(v.out, "> ")
}

func (v *terminalView) ShowNoQuestions() {
	fmt.Fprintln(v.out, "This interview has no questions.")
	v.finish("")
}

func (v *terminalView) ShowError(err error) {
	fmt.Fprintf(v.out, "\nError: %v\n", err)
}

func (v *terminalView) NavigateHome() {
	fmt.Fprintln(v.out, "\nThe session could not continue.")
	v.finish("")
}

func (v *terminalView) NavigateToFeedback(interviewID string) {
	v.finish(interviewID)
}

func (v *terminalView) finish(interviewID string) {
	v.once.Do(func() {
		v.mu.Lock()
		v.card = nil
		v.interviewID = interviewID
		v.mu.Unlock()
		close(v.done)
	})
}

func (v *terminalView) current() *quiz.QuestionCard {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.card
}

// completedInterview is set only when the session reached feedback.
func (v *terminalView) completedInterview() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.interviewID
}

// answer applies one input line to card and submits it.
func answer(card *quiz.QuestionCard, line string) error {
	line = strings.TrimSpace(line)
	if !card.IsMultipleChoice() {
		if err := card.SetText(line); err != nil {
			return err
		}
		return card.Submit()
	}

	option, err := optionFor(card.Question().Options, line)
	if err != nil {
		return err
	}
	if err := card.Select(option); err != nil {
		return err
	}
	return card.Submit()
}

// optionFor accepts either a 1-based option number or the option text.
func optionFor(options []string, input string) (string, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("choose a number between 1 and %d", len(options))
		}
		return options[n-1], nil
	}
	for _, opt := range options {
		if strings.EqualFold(opt, input) {
			return opt, nil
		}
	}
	return "", errors.New("unknown option")
}
