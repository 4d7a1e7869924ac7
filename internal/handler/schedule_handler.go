package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oumizumi/kairo-api/internal/models"
	"github.com/oumizumi/kairo-api/internal/service"
	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
	"github.com/oumizumi/kairo-api/pkg/response"
)

type scheduleOrchestrator interface {
	Generate(ctx context.Context, userID string, req service.GenerateRequest) (*service.GenerateResult, error)
	Clear(ctx context.Context, userID, term string) (int, error)
	RefreshCatalog(ctx context.Context, term string)
}

// ScheduleHandler exposes schedule generation endpoints.
type ScheduleHandler struct {
	service scheduleOrchestrator
	intents *service.IntentService
	metrics *service.MetricsService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc scheduleOrchestrator, intents *service.IntentService, metrics *service.MetricsService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, intents: intents, metrics: metrics}
}

// Generate godoc
// @Summary Generate a conflict-free schedule for the authenticated user
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.GenerateRequest true "Generate schedule payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedule/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	started := time.Now()
	result, err := h.service.Generate(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	outcomes := make(map[models.Term]response.TermOutcome, len(result.Terms))
	for _, summary := range result.Terms {
		h.metrics.ObserveGeneration(string(summary.Term), summary.Success, summary.EventsCreated, time.Since(started))
		outcomes[summary.Term] = response.TermOutcome{
			Success:   summary.Success,
			Scheduled: len(summary.Scheduled),
			Events:    summary.EventsCreated,
		}
	}
	response.JSON(c, http.StatusOK, result, nil, response.TermMeta(outcomes))
}

// Clear godoc
// @Summary Delete the user's generated schedule
// @Tags Schedule
// @Produce json
// @Param term query string false "Term to clear; empty clears the academic year"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedule [delete]
func (h *ScheduleHandler) Clear(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	count, err := h.service.Clear(c.Request.Context(), claims.UserID, c.Query("term"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": count}, nil)
}

// RefreshCatalog godoc
// @Summary Invalidate cached course data
// @Tags Schedule
// @Produce json
// @Param term query string false "Term to refresh; empty refreshes all"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /catalog/refresh [post]
func (h *ScheduleHandler) RefreshCatalog(c *gin.Context) {
	h.service.RefreshCatalog(c.Request.Context(), c.Query("term"))
	response.JSON(c, http.StatusOK, gin.H{"status": "refreshed"}, nil)
}

type assistantRequest struct {
	Message string `json:"message" binding:"required"`
	Program string `json:"program"`
	Year    int    `json:"year"`
}

// Assist godoc
// @Summary Interpret a chat-style scheduling request
// @Description Classifies the message and, for generation/clearing intents, performs the action.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body assistantRequest true "Assistant message"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /assistant/message [post]
func (h *ScheduleHandler) Assist(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assistant payload"))
		return
	}

	intent := h.intents.Classify(req.Message)
	term := ""
	if inferred, ok := h.intents.InferTerm(req.Message); ok {
		term = string(inferred)
	}
	year := req.Year
	if inferred, ok := h.intents.InferYear(req.Message); ok && year == 0 {
		year = inferred
	}

	switch intent {
	case service.IntentGenerate:
		result, err := h.service.Generate(c.Request.Context(), claims.UserID, service.GenerateRequest{
			Program: req.Program,
			Year:    year,
			Term:    term,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"intent": intent, "result": result}, nil)
	case service.IntentClear:
		count, err := h.service.Clear(c.Request.Context(), claims.UserID, term)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"intent": intent, "deleted": count}, nil)
	default:
		response.JSON(c, http.StatusOK, gin.H{"intent": intent}, nil)
	}
}
