package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
	"github.com/oumizumi/kairo-api/pkg/response"
)

type curriculumBrowser interface {
	Programs(ctx context.Context) ([]string, error)
	RequiredCourses(ctx context.Context, program string, year int, term string) ([]string, error)
	ElectivePlaceholders(ctx context.Context, program string, year int, term string) ([]string, error)
}

// ProgramHandler exposes curriculum browsing endpoints.
type ProgramHandler struct {
	curriculum curriculumBrowser
}

// NewProgramHandler constructs the handler.
func NewProgramHandler(curriculum curriculumBrowser) *ProgramHandler {
	return &ProgramHandler{curriculum: curriculum}
}

// List godoc
// @Summary List known degree programs
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.curriculum.Programs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}

// Requirements godoc
// @Summary List required courses for a program term
// @Tags Programs
// @Produce json
// @Param program path string true "Program name"
// @Param year query int true "Program year"
// @Param term query string true "Term name"
// @Success 200 {object} response.Envelope
// @Router /programs/{program}/courses [get]
func (h *ProgramHandler) Requirements(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a positive integer"))
		return
	}
	term := c.Query("term")
	if term == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term is required"))
		return
	}
	program := c.Param("program")

	courses, err := h.curriculum.RequiredCourses(c.Request.Context(), program, year, term)
	if err != nil {
		response.Error(c, err)
		return
	}
	electives, err := h.curriculum.ElectivePlaceholders(c.Request.Context(), program, year, term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"courses": courses, "electives": electives}, nil)
}
