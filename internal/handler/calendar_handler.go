package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oumizumi/kairo-api/internal/models"
	"github.com/oumizumi/kairo-api/internal/service"
	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
	"github.com/oumizumi/kairo-api/pkg/export"
	"github.com/oumizumi/kairo-api/pkg/response"
)

// CalendarHandler exposes the user's calendar.
type CalendarHandler struct {
	service *service.CalendarService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		service: svc,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// List godoc
// @Summary List the user's calendar events
// @Tags Calendar
// @Produce json
// @Param start_date query string false "RFC3339 lower bound"
// @Param end_date query string false "RFC3339 upper bound"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events [get]
func (h *CalendarHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	req := service.CalendarListRequest{}
	if raw := c.Query("start_date"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			req.StartDate = &parsed
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			req.EndDate = &parsed
		}
	}
	events, pagination, err := h.service.List(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Create godoc
// @Summary Add a manual event to the user's calendar
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body service.CreateCalendarEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	event, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update one of the user's events
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body service.CreateCalendarEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar/events/{id} [put]
func (h *CalendarHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	event, err := h.service.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Remove one of the user's events
// @Tags Calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 204
// @Security BearerAuth
// @Router /calendar/events/{id} [delete]
func (h *CalendarHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export the user's timetable as CSV or PDF
// @Tags Calendar
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /calendar/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	events, _, err := h.service.List(c.Request.Context(), claims.UserID, service.CalendarListRequest{PageSize: 200})
	if err != nil {
		response.Error(c, err)
		return
	}

	dataset := timetableDataset(events)
	switch c.DefaultQuery("format", "csv") {
	case "pdf":
		payload, err := h.pdf.Render(dataset, "Weekly Timetable")
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="timetable.pdf"`)
		c.Data(http.StatusOK, "application/pdf", payload)
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="timetable.csv"`)
		c.Data(http.StatusOK, "text/csv", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

func timetableDataset(events []models.CalendarEvent) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Title", "Day", "Start", "End", "Location", "Instructor", "From", "To"},
	}
	for _, event := range events {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Title":      event.Title,
			"Day":        event.DayOfWeek,
			"Start":      event.StartTime,
			"End":        event.EndTime,
			"Location":   event.Location,
			"Instructor": event.Instructor,
			"From":       event.StartDate.Format("2006-01-02"),
			"To":         event.EndDate.Format("2006-01-02"),
		})
	}
	return dataset
}
