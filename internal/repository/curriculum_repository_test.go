package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
)

func writeCurriculums(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, curriculumFile), []byte(content), 0o644))
}

const sampleCurriculums = `{
	"Computer Science": {
		"2": {
			"Fall": ["CSI2110 | Data Structures", "MAT1341", "Elective: Arts", "ELECTIVE (any faculty)"],
			"Winter": ["CSI2132 | Databases"]
		}
	}
}`

func TestCurriculumRequiredCourses(t *testing.T) {
	dir := t.TempDir()
	writeCurriculums(t, dir, sampleCurriculums)
	repo := NewCurriculumRepository([]string{dir}, nil)

	courses, err := repo.RequiredCourses(context.Background(), "Computer Science", 2, "Fall")
	require.NoError(t, err)
	assert.Equal(t, []string{"CSI2110 | Data Structures", "MAT1341"}, courses)

	electives, err := repo.ElectivePlaceholders(context.Background(), "Computer Science", 2, "Fall")
	require.NoError(t, err)
	assert.Equal(t, []string{"Elective: Arts", "ELECTIVE (any faculty)"}, electives)
}

func TestCurriculumMatchingIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeCurriculums(t, dir, sampleCurriculums)
	repo := NewCurriculumRepository([]string{dir}, nil)

	courses, err := repo.RequiredCourses(context.Background(), "computer science", 2, "fall")
	require.NoError(t, err)
	assert.NotEmpty(t, courses)
}

func TestCurriculumUnknownProgram(t *testing.T) {
	dir := t.TempDir()
	writeCurriculums(t, dir, sampleCurriculums)
	repo := NewCurriculumRepository([]string{dir}, nil)

	_, err := repo.RequiredCourses(context.Background(), "Basket Weaving", 1, "Fall")
	require.Error(t, err)
	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestCurriculumMissingDataFile(t *testing.T) {
	repo := NewCurriculumRepository([]string{t.TempDir()}, nil)

	_, err := repo.Programs(context.Background())
	require.Error(t, err)
	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, appErrors.ErrDataUnavailable.Code, typed.Code)
}

func TestCurriculumPrograms(t *testing.T) {
	dir := t.TempDir()
	writeCurriculums(t, dir, sampleCurriculums)
	repo := NewCurriculumRepository([]string{dir}, nil)

	programs, err := repo.Programs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Computer Science"}, programs)
}

