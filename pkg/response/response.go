package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oumizumi/kairo-api/internal/models"
	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// TermOutcome is the per-term count block for the envelope meta. Full
// summaries travel in Data; this gives clients a cheap success check
// without walking them.
type TermOutcome struct {
	Success   bool `json:"success"`
	Scheduled int  `json:"scheduled"`
	Events    int  `json:"events"`
}

// TermMeta packs per-term outcomes into an envelope meta block keyed by
// term label. Returns nil when there is nothing to report.
func TermMeta(outcomes map[models.Term]TermOutcome) map[string]interface{} {
	if len(outcomes) == 0 {
		return nil
	}
	terms := make(map[string]TermOutcome, len(outcomes))
	for term, outcome := range outcomes {
		terms[string(term)] = outcome
	}
	return map[string]interface{}{"terms": terms}
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
