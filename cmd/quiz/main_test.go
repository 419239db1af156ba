package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/config"
	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionFor(t *testing.T) {
	options := []string{"Goroutine", "Thread", "Process"}

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "1", want: "Goroutine"},
		{input: "3", want: "Process"},
		{input: "thread", want: "Thread"},
		{input: "0", wantErr: true},
		{input: "4", wantErr: true},
		{input: "fiber", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := optionFor(options, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func frontendOptions() options {
	return options{seed: "../../configs/interviews.yaml", role: "frontend", user: "tester"}
}

func TestParseFlags(t *testing.T) {
	cfg := &config.Config{Quiz: config.QuizConfig{QuestionTimeLimit: 45 * time.Second}}

	opts, err := parseFlags(nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, opts.limit)
	assert.Equal(t, "local-candidate", opts.user)

	opts, err = parseFlags([]string{"-time-limit", "0", "-role", "backend"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), opts.limit)
	assert.Equal(t, "backend", opts.role)
}

func TestGeneratorFromConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.IsType(t, feedback.NewUnavailableGenerator(), generator(config.FeedbackConfig{}, logger))

	gen := generator(config.FeedbackConfig{APIKey: "sk-test", Model: "gpt-4o-mini", MaxTokens: 100, RatePerMinute: 5}, logger)
	assert.IsType(t, &feedback.OpenAIGenerator{}, gen)
}

func TestRunCompletesInterview(t *testing.T) {
	in := strings.NewReader("1\n7\n1\nIt diffs a virtual tree against the real DOM\n:skip\n")
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(in, &out, logger, config.FeedbackConfig{}, frontendOptions())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Junior Frontend Engineer interview")
	assert.Contains(t, text, "Question 4 of 4")
	assert.Contains(t, text, "choose a number between 1 and 4")
	assert.Contains(t, text, "Quiz score: 40% (10 of 25 points)")
	assert.Contains(t, text, "No feedback is available for this attempt.")
}

func TestRunInputClosedEarly(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(strings.NewReader("1\n"), &out, logger, config.FeedbackConfig{}, frontendOptions())
	assert.EqualError(t, err, "input closed before the interview finished")
}
