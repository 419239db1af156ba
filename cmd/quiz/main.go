// Command quiz runs an interview in the terminal against an in-memory store
// seeded from the catalog file.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/catalog"
	"github.com/SAP-F-2025/interview-service/internal/config"
	"github.com/SAP-F-2025/interview-service/internal/feedback"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/quiz"
	"github.com/SAP-F-2025/interview-service/internal/repositories/memory"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"github.com/jonboulle/clockwork"
)

type options struct {
	seed    string
	role    string
	user    string
	limit   time.Duration
	verbose bool
}

// parseFlags reads the command line. QUESTION_TIME_LIMIT supplies the
// -time-limit default.
func parseFlags(args []string, cfg *config.Config) (options, error) {
	var opts options
	fs := flag.NewFlagSet("quiz", flag.ContinueOnError)
	fs.StringVar(&opts.seed, "seed", "configs/interviews.yaml", "catalog file to load")
	fs.StringVar(&opts.role, "role", "", "pick the first interview whose role contains this text")
	fs.StringVar(&opts.user, "user", "local-candidate", "candidate id")
	fs.DurationVar(&opts.limit, "time-limit", cfg.Quiz.QuestionTimeLimit, "time allowed per question, 0 disables the countdown")
	fs.BoolVar(&opts.verbose, "v", false, "log at debug level to stderr")
	err := fs.Parse(args)
	return opts, err
}

func main() {
	cfg, err := config.LoadQuizConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "quiz:", err)
		os.Exit(1)
	}
	opts, err := parseFlags(os.Args[1:], cfg)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(os.Stdin, os.Stdout, logger, cfg.Feedback, opts); err != nil {
		fmt.Fprintln(os.Stderr, "quiz:", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, logger *slog.Logger, fb config.FeedbackConfig, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	clock := clockwork.NewRealClock()
	manager := services.NewServiceManager(services.Dependencies{
		Repo:      memory.New(clock),
		Generator: generator(fb, logger),
		Clock:     clock,
		Logger:    logger,
	})

	interviews, err := catalog.NewSeeder(manager.Interview(), logger).SeedFile(ctx, opts.seed)
	if err != nil {
		return err
	}
	interview, err := pick(interviews, opts.role)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s interview (%s), %d questions\n",
		interview.Level, interview.Role, interview.Type, len(interview.Questions))

	view := newTerminalView(out)
	orch := quiz.New(manager.Attempt(), manager.Feedback(), view,
		quiz.WithClock(clock),
		quiz.WithLogger(logger),
		quiz.WithTimeLimit(opts.limit),
		quiz.WithTimerContext(ctx),
	)
	if err := orch.Start(ctx, interview.ID, opts.user); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-view.done:
			return report(ctx, out, manager, orch, view.completedInterview(), opts.user)
		case line, ok := <-lines:
			if !ok {
				select {
				case <-view.done:
					return report(ctx, out, manager, orch, view.completedInterview(), opts.user)
				default:
					return errors.New("input closed before the interview finished")
				}
			}
			handleLine(ctx, out, orch, view, line)
		}
	}
}

func handleLine(ctx context.Context, out io.Writer, orch *quiz.Orchestrator, view *terminalView, line string) {
	card := view.current()
	if card == nil {
		return
	}

	var err error
	if strings.TrimSpace(line) == skipCommand {
		err = orch.Skip(ctx)
	} else {
		err = answer(card, line)
	}

	var subErr *quiz.SubmissionError
	switch {
	case err == nil, errors.As(err, &subErr):
		// The view already showed the outcome.
	case errors.Is(err, quiz.ErrCardSubmitted):
		fmt.Fprint(out, "That question is already closed.\n> ")
	default:
		fmt.Fprintf(out, "%v\n> ", err)
	}
}

func report(ctx context.Context, out io.Writer, manager services.ServiceManager, orch *quiz.Orchestrator, interviewID, userID string) error {
	orch.Wait()

	result := orch.Result()
	if result == nil || interviewID == "" {
		return nil
	}

	fmt.Fprintf(out, "\nQuiz score: %d%% (%d of %d points) in %ds\n",
		result.QuizScore, result.TotalScore, result.MaxPossibleScore, result.TotalTime)

	fb, err := manager.Feedback().GetLatestFeedback(ctx, interviewID, userID)
	if errors.Is(err, services.ErrFeedbackNotFound) {
		fmt.Fprintln(out, "No feedback is available for this attempt.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nOverall: %d/100\n", fb.TotalScore)
	for _, c := range fb.CategoryScores {
		fmt.Fprintf(out, "  %s: %d - %s\n", c.Name, c.Score, c.Comment)
	}
	printList(out, "Strengths", fb.Strengths)
	printList(out, "Areas for improvement", fb.AreasForImprovement)
	fmt.Fprintf(out, "\n%s\n", fb.FinalAssessment)
	return nil
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}

func pick(interviews []*models.Interview, role string) (*models.Interview, error) {
	for _, iv := range interviews {
		if role == "" || strings.Contains(strings.ToLower(iv.Role), strings.ToLower(role)) {
			return iv, nil
		}
	}
	if role != "" {
		return nil, fmt.Errorf("no interview matches role %q", role)
	}
	return nil, errors.New("catalog has no interviews")
}

// generator uses OpenAI when an API key is configured.
func generator(cfg config.FeedbackConfig, logger *slog.Logger) feedback.Generator {
	gen, err := feedback.NewOpenAIGenerator(cfg.OpenAI(), logger)
	if err != nil {
		return feedback.NewUnavailableGenerator()
	}
	return gen
}
