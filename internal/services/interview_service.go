package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/interview-service/internal/cache"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"github.com/SAP-F-2025/interview-service/internal/validator"
	"gorm.io/datatypes"
)

type interviewService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewInterviewService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, validator *validator.Validator) InterviewService {
	return &interviewService{
		repo:      repo,
		cache:     cacheService,
		logger:    logger,
		validator: validator,
	}
}

// CreateInterview stores a finalized interview. Question positions follow
// the request order and zero points default to 1.
func (s *interviewService) CreateInterview(ctx context.Context, req *CreateInterviewRequest) (*models.Interview, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	interview := &models.Interview{
		Role:        req.Role,
		Level:       req.Level,
		Type:        req.Type,
		TechStack:   datatypes.JSONSlice[string](req.TechStack),
		Description: req.Description,
		Finalized:   true,
		Questions:   make([]models.Question, 0, len(req.Questions)),
	}
	for i, q := range req.Questions {
		points := q.Points
		if points == 0 {
			points = 1
		}
		interview.Questions = append(interview.Questions, models.Question{
			Type:          q.Type,
			Prompt:        q.Prompt,
			Options:       datatypes.JSONSlice[string](q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Points:        points,
			Explanation:   q.Explanation,
			Position:      i,
		})
	}

	if err := s.validator.Question().ValidateSequence(interview.Questions); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if err := s.repo.Interview().Create(ctx, interview); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	if err := s.cache.Delete(ctx, cache.QuestionsKey(interview.ID)); err != nil {
		s.logger.Warn("Failed to invalidate question cache", "interview_id", interview.ID, "error", err)
	}

	s.logger.Info("Interview created",
		"interview_id", interview.ID,
		"role", interview.Role,
		"questions", len(interview.Questions))

	return interview, nil
}

func (s *interviewService) GetInterview(ctx context.Context, interviewID string) (*models.Interview, error) {
	interview, err := s.repo.Interview().GetByID(ctx, interviewID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return interview, nil
}

func (s *interviewService) ListLatestInterviews(ctx context.Context, limit int) ([]*models.Interview, error) {
	finalized := true
	interviews, err := s.repo.Interview().List(ctx, repositories.InterviewFilters{
		Finalized: &finalized,
		Limit:     repositories.NormalizedLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

func (s *interviewService) ListCompletedInterviews(ctx context.Context, userID string, limit int) ([]*models.Interview, error) {
	interviews, err := s.repo.Interview().ListCompletedByUser(ctx, userID, repositories.NormalizedLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list completed interviews: %w", err)
	}
	return interviews, nil
}
