package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"github.com/SAP-F-2025/interview-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type InterviewHandler struct {
	BaseHandler
	interviewService services.InterviewService
	attemptService   services.AttemptService
	feedbackService  services.FeedbackService
	exportService    services.ExportService
}

func NewInterviewHandler(
	interviewService services.InterviewService,
	attemptService services.AttemptService,
	feedbackService services.FeedbackService,
	exportService services.ExportService,
	logger utils.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		BaseHandler:      NewBaseHandler(logger),
		interviewService: interviewService,
		attemptService:   attemptService,
		feedbackService:  feedbackService,
		exportService:    exportService,
	}
}

// QuestionView is a question as shown to a candidate: no correct answer,
// no explanation.
type QuestionView struct {
	ID       string              `json:"id"`
	Type     models.QuestionType `json:"type"`
	Question string              `json:"question"`
	Options  []string            `json:"options,omitempty"`
	Points   int                 `json:"points"`
	Position int                 `json:"position"`
}

func newQuestionViews(questions []models.Question) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			ID:       q.ID,
			Type:     q.Type,
			Question: q.Prompt,
			Options:  q.Options,
			Points:   q.Points,
			Position: q.Position,
		})
	}
	return views
}

// ListInterviews returns the latest finalized interviews
// @Router /interviews [get]
func (h *InterviewHandler) ListInterviews(c *gin.Context) {
	limit := h.parseIntQuery(c, "limit", 0)

	interviews, err := h.interviewService.ListLatestInterviews(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, interviews)
}

// @Router /interviews/{id} [get]
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	interview, err := h.interviewService.GetInterview(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, interview)
}

// GetQuestions returns the ordered questions without their answers
// @Router /interviews/{id}/questions [get]
func (h *InterviewHandler) GetQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if _, err := h.interviewService.GetInterview(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	questions, err := h.attemptService.GetQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newQuestionViews(questions))
}

// GetLatestFeedback returns the caller's latest feedback, or null data when
// there is none yet.
// @Router /interviews/{id}/feedback [get]
func (h *InterviewHandler) GetLatestFeedback(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID := h.requireUser(c)
	if userID == "" {
		return
	}

	fb, err := h.feedbackService.GetLatestFeedback(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, services.ErrFeedbackNotFound) {
			c.JSON(http.StatusOK, DataResponse{Data: nil})
			return
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: fb})
}

// ExportResults streams the attempt results of an interview as xlsx
// @Router /interviews/{id}/results/export [get]
func (h *InterviewHandler) ExportResults(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Exporting interview results", "interview_id", id)

	var buf bytes.Buffer
	if err := h.exportService.ExportAttemptResults(c.Request.Context(), id, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="interview-%s-results.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ListMyCompletedInterviews returns interviews the caller has completed
// @Router /users/me/interviews [get]
func (h *InterviewHandler) ListMyCompletedInterviews(c *gin.Context) {
	userID := h.requireUser(c)
	if userID == "" {
		return
	}

	interviews, err := h.interviewService.ListCompletedInterviews(c.Request.Context(), userID, h.parseIntQuery(c, "limit", 0))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, interviews)
}
