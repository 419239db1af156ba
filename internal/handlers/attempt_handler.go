package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/SAP-F-2025/interview-service/internal/repositories"
	"github.com/SAP-F-2025/interview-service/internal/services"
	"github.com/SAP-F-2025/interview-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	BaseHandler
	attemptService  services.AttemptService
	feedbackService services.FeedbackService
}

func NewAttemptHandler(attemptService services.AttemptService, feedbackService services.FeedbackService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:     NewBaseHandler(logger),
		attemptService:  attemptService,
		feedbackService: feedbackService,
	}
}

// StartAttempt opens a new attempt for the caller
// @Router /attempts [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req services.StartAttemptRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID := h.requireUser(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Starting attempt", "interview_id", req.InterviewID)

	attempt, err := h.attemptService.CreateAttempt(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// @Router /attempts [get]
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID := h.requireUser(c)
	if userID == "" {
		return
	}

	filters := repositories.AttemptFilters{
		InterviewID: c.Query("interview_id"),
		Status:      models.AttemptStatus(c.Query("status")),
		Limit:       h.parseIntQuery(c, "limit", 0),
		Offset:      h.parseIntQuery(c, "offset", 0),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
	}

	attempts, err := h.attemptService.ListUserAttempts(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// GetAttempt returns the attempt with its answers
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID := h.requireUser(c)
	if userID == "" {
		return
	}

	attempt, err := h.attemptService.GetAttempt(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// SubmitAnswer records one answer. A repeated answer returns the stored
// grading with duplicate=true.
// @Router /attempts/{id}/answers [post]
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req services.SubmitAnswerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.AttemptID = id
	userID := h.requireUser(c)
	if userID == "" {
		return
	}

	result, err := h.attemptService.RecordAnswer(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// @Router /attempts/{id}/progress [put]
func (h *AttemptHandler) UpdateProgress(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req services.UpdateProgressRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.AttemptID = id
	userID := h.requireUser(c)
	if userID == "" {
		return
	}

	if err := h.attemptService.UpdateProgress(c.Request.Context(), &req, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Router /attempts/{id}/complete [post]
func (h *AttemptHandler) CompleteAttempt(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req services.CompleteAttemptRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.AttemptID = id
	userID := h.requireUser(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Completing attempt", "attempt_id", id)

	result, err := h.attemptService.CompleteAttempt(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GenerateFeedback builds feedback from the attempt's stored answers
// @Router /attempts/{id}/feedback [post]
func (h *AttemptHandler) GenerateFeedback(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	userID := h.requireUser(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Generating feedback", "attempt_id", id)

	fb, err := h.feedbackService.GenerateForAttempt(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}
