package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet     = "Results"
	exportTimeFormat = "2006-01-02 15:04:05"
	exportPageSize   = 100
)

var resultHeaders = []string{
	"Attempt ID", "User ID", "Status", "Started At", "Completed At",
	"Quiz Score (%)", "Total Time (s)", "Answers", "Feedback Score",
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *exportService) ExportAttemptResults(ctx context.Context, interviewID string, w io.Writer) error {
	if _, err := s.repo.Interview().GetByID(ctx, interviewID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrInterviewNotFound
		}
		return fmt.Errorf("failed to get interview: %w", err)
	}

	rows, err := s.collectRows(ctx, interviewID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	// Write headers
	for i, header := range resultHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(resultsSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	// Write attempt data
	for rowIndex, row := range rows {
		for colIndex, value := range resultRowValues(row) {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err := f.SetCellValue(resultsSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowIndex+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported attempt results", "interview_id", interviewID, "rows", len(rows))
	return nil
}

func (s *exportService) collectRows(ctx context.Context, interviewID string) ([]models.AttemptResultRow, error) {
	var rows []models.AttemptResultRow
	for offset := 0; ; offset += exportPageSize {
		attempts, total, err := s.repo.Attempt().List(ctx, repositories.AttemptFilters{
			InterviewID: interviewID,
			SortBy:      "created_at",
			SortOrder:   "asc",
			Limit:       exportPageSize,
			Offset:      offset,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list attempts: %w", err)
		}

		for _, attempt := range attempts {
			row, err := s.buildRow(ctx, attempt)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}

		if len(attempts) == 0 || int64(offset+len(attempts)) >= total {
			return rows, nil
		}
	}
}

func (s *exportService) buildRow(ctx context.Context, attempt *models.InterviewAttempt) (models.AttemptResultRow, error) {
	answers, err := s.repo.Answer().CountByAttempt(ctx, attempt.ID)
	if err != nil {
		return models.AttemptResultRow{}, fmt.Errorf("failed to count answers: %w", err)
	}

	row := models.AttemptResultRow{
		AttemptID:   attempt.ID,
		UserID:      attempt.UserID,
		Status:      attempt.Status,
		StartedAt:   attempt.CreatedAt,
		CompletedAt: attempt.CompletedAt,
		QuizScore:   attempt.QuizScore,
		TotalTime:   attempt.TotalTime,
		AnswerCount: answers,
	}

	fb, err := s.repo.Feedback().GetLatestByAttempt(ctx, attempt.ID)
	switch {
	case err == nil:
		score := fb.TotalScore
		row.FeedbackScore = &score
	case !repositories.IsNotFoundError(err):
		return models.AttemptResultRow{}, fmt.Errorf("failed to get feedback: %w", err)
	}
	return row, nil
}

func resultRowValues(row models.AttemptResultRow) []interface{} {
	values := []interface{}{
		row.AttemptID,
		row.UserID,
		string(row.Status),
		row.StartedAt.Format(exportTimeFormat),
	}

	if row.CompletedAt != nil {
		values = append(values, row.CompletedAt.Format(exportTimeFormat))
	} else {
		values = append(values, "")
	}

	return append(values,
		optionalInt(row.QuizScore),
		optionalInt(row.TotalTime),
		row.AnswerCount,
		optionalInt(row.FeedbackScore),
	)
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
