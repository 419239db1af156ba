// Package memory is an in-process implementation of the repository
// interfaces. It backs the terminal quiz runner and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"github.com/jonboulle/clockwork"
)

// Store holds every table behind a single lock.
type Store struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	interviews map[string]models.Interview
	questions  map[string]models.Question
	attempts   map[string]models.InterviewAttempt
	answers    []models.Answer
	feedback   []models.Feedback
}

// New returns an empty store stamping rows with clock.
func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:      clock,
		interviews: make(map[string]models.Interview),
		questions:  make(map[string]models.Question),
		attempts:   make(map[string]models.InterviewAttempt),
	}
}

func (s *Store) Interview() repositories.InterviewRepository { return interviewRepo{s} }
func (s *Store) Question() repositories.QuestionRepository   { return questionRepo{s} }
func (s *Store) Attempt() repositories.AttemptRepository     { return attemptRepo{s} }
func (s *Store) Answer() repositories.AnswerRepository       { return answerRepo{s} }
func (s *Store) Feedback() repositories.FeedbackRepository   { return feedbackRepo{s} }

var _ repositories.Repository = (*Store)(nil)

// ===== INTERVIEWS =====

type interviewRepo struct{ s *Store }

func (r interviewRepo) Create(ctx context.Context, interview *models.Interview) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if interview.ID == "" {
		interview.ID = models.NewID()
	}
	if _, exists := r.s.interviews[interview.ID]; exists {
		return repositories.ErrDuplicate
	}

	positions := make(map[int]struct{}, len(interview.Questions))
	for _, q := range interview.Questions {
		if _, dup := positions[q.Position]; dup {
			return repositories.ErrDuplicate
		}
		positions[q.Position] = struct{}{}
	}

	now := r.s.clock.Now()
	interview.CreatedAt = now
	for i := range interview.Questions {
		q := &interview.Questions[i]
		if q.ID == "" {
			q.ID = models.NewID()
		}
		q.InterviewID = interview.ID
		q.CreatedAt = now
		r.s.questions[q.ID] = *q
	}

	stored := *interview
	stored.Questions = nil
	r.s.interviews[interview.ID] = stored
	return nil
}

func (r interviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	interview, ok := r.s.interviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &interview, nil
}

func (r interviewRepo) List(ctx context.Context, filters repositories.InterviewFilters) ([]*models.Interview, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Interview
	for _, iv := range r.s.interviews {
		if filters.Finalized != nil && iv.Finalized != *filters.Finalized {
			continue
		}
		if filters.Level != "" && iv.Level != filters.Level {
			continue
		}
		iv := iv
		out = append(out, &iv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filters.Offset, filters.Limit), nil
}

func (r interviewRepo) ListCompletedByUser(ctx context.Context, userID string, limit int) ([]*models.Interview, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []*models.Interview
	for _, a := range r.s.attempts {
		if a.UserID != userID || a.Status != models.AttemptStatusCompleted {
			continue
		}
		if _, dup := seen[a.InterviewID]; dup {
			continue
		}
		seen[a.InterviewID] = struct{}{}
		if iv, ok := r.s.interviews[a.InterviewID]; ok {
			out = append(out, &iv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, 0, limit), nil
}

// ===== QUESTIONS =====

type questionRepo struct{ s *Store }

func (r questionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q, ok := r.s.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &q, nil
}

func (r questionRepo) GetByInterview(ctx context.Context, interviewID string) ([]models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Question, 0)
	for _, q := range r.s.questions {
		if q.InterviewID == interviewID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r questionRepo) CountByInterview(ctx context.Context, interviewID string) (int, error) {
	qs, err := r.GetByInterview(ctx, interviewID)
	return len(qs), err
}

// ===== ATTEMPTS =====

type attemptRepo struct{ s *Store }

func (r attemptRepo) Create(ctx context.Context, attempt *models.InterviewAttempt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if attempt.ID == "" {
		attempt.ID = models.NewID()
	}
	if _, exists := r.s.attempts[attempt.ID]; exists {
		return repositories.ErrDuplicate
	}
	if attempt.Status == "" {
		attempt.Status = models.AttemptStatusInProgress
	}
	now := r.s.clock.Now()
	attempt.CreatedAt = now
	attempt.UpdatedAt = now
	r.s.attempts[attempt.ID] = *attempt
	return nil
}

func (r attemptRepo) GetByID(ctx context.Context, id string) (*models.InterviewAttempt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.attempts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (r attemptRepo) GetByIDWithAnswers(ctx context.Context, id string) (*models.InterviewAttempt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.attempts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if iv, ok := r.s.interviews[a.InterviewID]; ok {
		a.Interview = &iv
	}
	a.Answers = r.s.answersFor(id)
	return &a, nil
}

func (r attemptRepo) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.InterviewAttempt, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.InterviewAttempt
	for _, a := range r.s.attempts {
		if filters.InterviewID != "" && a.InterviewID != filters.InterviewID {
			continue
		}
		if filters.UserID != "" && a.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		if filters.DateFrom != nil && a.CreatedAt.Before(*filters.DateFrom) {
			continue
		}
		if filters.DateTo != nil && a.CreatedAt.After(*filters.DateTo) {
			continue
		}
		a := a
		out = append(out, &a)
	}

	asc := filters.SortOrder == "asc"
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := int64(len(out))
	return page(out, filters.Offset, filters.Limit), total, nil
}

func (r attemptRepo) UpdateProgress(ctx context.Context, id string, currentQuestionIndex int, checkpointTime *int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.attempts[id]
	if !ok || a.Status != models.AttemptStatusInProgress || a.CurrentQuestionIndex > currentQuestionIndex {
		return false, nil
	}
	a.CurrentQuestionIndex = currentQuestionIndex
	if checkpointTime != nil {
		v := *checkpointTime
		a.CheckpointTime = &v
	}
	a.UpdatedAt = r.s.clock.Now()
	r.s.attempts[id] = a
	return true, nil
}

func (r attemptRepo) CompleteAttempt(ctx context.Context, id string, completion repositories.Completion) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.attempts[id]
	if !ok || a.Status != models.AttemptStatusInProgress {
		return false, nil
	}
	score, total, at := completion.QuizScore, completion.TotalTime, completion.CompletedAt
	a.Status = models.AttemptStatusCompleted
	a.QuizScore = &score
	a.TotalTime = &total
	a.CompletedAt = &at
	a.UpdatedAt = r.s.clock.Now()
	r.s.attempts[id] = a
	return true, nil
}

// ===== ANSWERS =====

type answerRepo struct{ s *Store }

func (r answerRepo) Create(ctx context.Context, answer *models.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.answers {
		if existing.AttemptID == answer.AttemptID && existing.QuestionID == answer.QuestionID {
			return repositories.ErrDuplicate
		}
	}
	if answer.ID == "" {
		answer.ID = models.NewID()
	}
	answer.CreatedAt = r.s.clock.Now()

	stored := *answer
	stored.Question = nil
	r.s.answers = append(r.s.answers, stored)
	return nil
}

func (r answerRepo) GetByAttemptAndQuestion(ctx context.Context, attemptID, questionID string) (*models.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.answers {
		if a.AttemptID == attemptID && a.QuestionID == questionID {
			return &a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r answerRepo) GetByAttempt(ctx context.Context, attemptID string) ([]models.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.answersFor(attemptID), nil
}

func (r answerRepo) CountByAttempt(ctx context.Context, attemptID string) (int, error) {
	answers, err := r.GetByAttempt(ctx, attemptID)
	return len(answers), err
}

// answersFor must be called with the lock held.
func (s *Store) answersFor(attemptID string) []models.Answer {
	out := make([]models.Answer, 0)
	for _, a := range s.answers {
		if a.AttemptID != attemptID {
			continue
		}
		if q, ok := s.questions[a.QuestionID]; ok {
			a.Question = &q
		}
		out = append(out, a)
	}
	return out
}

// ===== FEEDBACK =====

type feedbackRepo struct{ s *Store }

func (r feedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if feedback.ID == "" {
		feedback.ID = models.NewID()
	}
	feedback.CreatedAt = r.s.clock.Now()
	r.s.feedback = append(r.s.feedback, *feedback)
	return nil
}

func (r feedbackRepo) GetLatest(ctx context.Context, interviewID, userID string) (*models.Feedback, error) {
	return r.latest(func(f models.Feedback) bool {
		return f.InterviewID == interviewID && f.UserID == userID
	})
}

func (r feedbackRepo) GetLatestByAttempt(ctx context.Context, attemptID string) (*models.Feedback, error) {
	return r.latest(func(f models.Feedback) bool {
		return f.AttemptID != nil && *f.AttemptID == attemptID
	})
}

// latest returns the newest matching row; ties go to the later insert.
func (r feedbackRepo) latest(match func(models.Feedback) bool) (*models.Feedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *models.Feedback
	var at time.Time
	for i := range r.s.feedback {
		f := r.s.feedback[i]
		if !match(f) {
			continue
		}
		if found == nil || !f.CreatedAt.Before(at) {
			found, at = &f, f.CreatedAt
		}
	}
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

func page[T any](items []T, offset, limit int) []T {
	limit = repositories.NormalizedLimit(limit)
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
