package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oumizumi/kairo-api/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoaderCombinedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, combinedCatalogFile, `{
		"Fall 2024 (2249)": [
			{"code": "CSI 2110", "section": "A01-LEC", "status": "Open",
			 "days": ["Mo", "We"], "time": "10:00 - 11:20",
			 "instructor": "L. Moura", "location": "STE B0138", "title": "Data Structures"}
		],
		"Fall 2025 (2259)": [
			{"courseCode": "CSI 2110", "sectionLabel": "B01-LEC", "availability": "Closed",
			 "schedule": {"days": "TR", "time": "13:00-14:20", "room": "MRN 150"}}
		],
		"Winter 2026": []
	}`)

	loader := NewLoader([]string{dir}, nil)
	catalog := loader.Load(context.Background(), models.TermFall)

	// Two fall keys exist; the newer year wins.
	require.Len(t, catalog, 1)
	sections := catalog["CSI2110"]
	require.Len(t, sections, 1)
	section := sections[0]
	assert.Equal(t, "B01-LEC", section.SectionLabel)
	assert.Equal(t, models.SectionLecture, section.Type)
	assert.Equal(t, "B", section.Group)
	assert.False(t, section.IsOpen)
	assert.Equal(t, "MRN 150", section.Location)
	assert.Equal(t, []models.Weekday{models.Tuesday, models.Thursday}, section.Days)
	require.NotNil(t, section.Time)
	assert.Equal(t, "13:00", section.Time.StartClock())
	assert.Equal(t, models.TermFall, section.Term)
}

func TestLoaderPerTermFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "all_courses_winter.json", `[
		{"code": "MAT1341", "section": "A00", "status": "13 spaces",
		 "days": "Monday, Wednesday", "hours": "8:30 - 9:50"}
	]`)

	loader := NewLoader([]string{dir}, nil)
	catalog := loader.Load(context.Background(), models.TermWinter)

	require.Len(t, catalog, 1)
	section := catalog["MAT1341"][0]
	assert.True(t, section.IsOpen)
	assert.Equal(t, []models.Weekday{models.Monday, models.Wednesday}, section.Days)
}

func TestLoaderDirectoryFallbackOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, second, combinedCatalogFile, `{"Fall 2025": [{"code": "PHY1121", "section": "A01"}]}`)

	loader := NewLoader([]string{first, second}, nil)
	catalog := loader.Load(context.Background(), models.TermFall)
	assert.Contains(t, catalog, "PHY1121")
}

func TestLoaderFailsSoft(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, combinedCatalogFile, `{not json`)

	loader := NewLoader([]string{dir}, nil)

	assert.Empty(t, loader.Load(context.Background(), models.TermFall))
	assert.Empty(t, loader.Load(context.Background(), models.TermSummer))

	missing := NewLoader([]string{filepath.Join(dir, "nope")}, nil)
	assert.Empty(t, missing.Load(context.Background(), models.TermFall))
}

func TestLoaderSkipsRecordsWithoutCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, combinedCatalogFile, `{"Fall 2025": [
		{"section": "A01", "days": "MWF"},
		{"code": "", "section": "A02"},
		{"code": "SEG2105", "section": "A01-LEC"}
	]}`)

	loader := NewLoader([]string{dir}, nil)
	catalog := loader.Load(context.Background(), models.TermFall)
	assert.Len(t, catalog, 1)
	assert.Contains(t, catalog, "SEG2105")
}

func TestLoaderWrappedCourseList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "all_courses_fall.json", `{"courses": [
		{"code": "CHM1311", "section": "A01-LEC", "status": "Open"}
	]}`)

	loader := NewLoader([]string{dir}, nil)
	catalog := loader.Load(context.Background(), models.TermFall)
	assert.Contains(t, catalog, "CHM1311")
}
