package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type curriculumMock struct{}

func (curriculumMock) Programs(ctx context.Context) ([]string, error) {
	return []string{"Computer Science", "Software Engineering"}, nil
}

func (curriculumMock) RequiredCourses(ctx context.Context, program string, year int, term string) ([]string, error) {
	return []string{"CSI2110 | Data Structures"}, nil
}

func (curriculumMock) ElectivePlaceholders(ctx context.Context, program string, year int, term string) ([]string, error) {
	return []string{"Elective: Arts"}, nil
}

func TestProgramHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewProgramHandler(curriculumMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/programs", nil)
	c.Request = req

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Computer Science")
}

func TestProgramHandlerRequirements(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewProgramHandler(curriculumMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/programs/Computer%20Science/courses?year=2&term=Fall", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "program", Value: "Computer Science"}}

	h.Requirements(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CSI2110")
	assert.Contains(t, w.Body.String(), "Elective: Arts")
}

func TestProgramHandlerRequirementsValidatesYear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewProgramHandler(curriculumMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/programs/CS/courses?term=Fall", nil)
	c.Request = req

	h.Requirements(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
