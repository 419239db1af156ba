package repositories

import (
	"time"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

// ===== FILTER STRUCTS =====

type InterviewFilters struct {
	Finalized *bool  `json:"finalized"`
	Role      string `json:"role"`
	Level     string `json:"level"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

type AttemptFilters struct {
	InterviewID string               `json:"interview_id"`
	UserID      string               `json:"user_id"`
	Status      models.AttemptStatus `json:"status"`
	DateFrom    *time.Time           `json:"date_from"`
	DateTo      *time.Time           `json:"date_to"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
	SortBy      string               `json:"sort_by"`    // "created_at", "completed_at", "quiz_score"
	SortOrder   string               `json:"sort_order"` // "asc", "desc"
}

// ===== COMPLETION =====

// Completion carries the values written when an attempt is finalized.
type Completion struct {
	QuizScore   int
	TotalTime   int
	CompletedAt time.Time
}

const DefaultListLimit = 20

// NormalizedLimit applies the default and upper bound to a page size.
func NormalizedLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > 100 {
		return 100
	}
	return limit
}
