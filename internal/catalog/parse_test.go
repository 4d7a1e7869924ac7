package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oumizumi/kairo-api/internal/models"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		start int
		end   int
		ok    bool
	}{
		{name: "colon range", raw: "08:30 - 10:00", start: 510, end: 600, ok: true},
		{name: "no spaces", raw: "8:30-10:00", start: 510, end: 600, ok: true},
		{name: "french notation", raw: "8h30 - 10h00", start: 510, end: 600, ok: true},
		{name: "embedded in text", raw: "Tue 13:00 - 14:20 (MRN 150)", start: 780, end: 860, ok: true},
		{name: "tba", raw: "TBA", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "end before start", raw: "10:00 - 08:30", ok: false},
		{name: "nonsense", raw: "see department", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, ok := ParseTimeRange(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, tr)
				assert.Equal(t, tt.start, tr.Start)
				assert.Equal(t, tt.end, tr.End)
			} else {
				assert.Nil(t, tr)
			}
		})
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  []models.Weekday
	}{
		{name: "abbreviation list", input: []interface{}{"Mo", "We"}, want: []models.Weekday{models.Monday, models.Wednesday}},
		{name: "full name list", input: []interface{}{"Monday", "Thursday"}, want: []models.Weekday{models.Monday, models.Thursday}},
		{name: "compact letters", input: "MWF", want: []models.Weekday{models.Monday, models.Wednesday, models.Friday}},
		{name: "thursday is R", input: "TR", want: []models.Weekday{models.Tuesday, models.Thursday}},
		{name: "two letter run", input: "MoWeFr", want: []models.Weekday{models.Monday, models.Wednesday, models.Friday}},
		{name: "comma separated names", input: "Monday, Wednesday", want: []models.Weekday{models.Monday, models.Wednesday}},
		{name: "duplicates collapse", input: []interface{}{"Mo", "Mo"}, want: []models.Weekday{models.Monday}},
		{name: "three letter list", input: []string{"Mon", "Thu"}, want: []models.Weekday{models.Monday, models.Thursday}},
		{name: "tba", input: "TBA", want: nil},
		{name: "nil", input: nil, want: nil},
		{name: "number", input: 3.0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDays(tt.input))
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		open bool
	}{
		{name: "open", raw: "Open", open: true},
		{name: "spaces available", raw: "12 spaces remaining", open: true},
		{name: "closed", raw: "Closed", open: false},
		{name: "full", raw: "Section Full", open: false},
		{name: "waitlist beats open", raw: "Open (waitlist)", open: false},
		{name: "boolean true", raw: true, open: true},
		{name: "boolean false", raw: false, open: false},
		{name: "unrecognized", raw: "contact registrar", open: false},
		{name: "nil", raw: nil, open: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, open := ParseStatus(tt.raw)
			assert.Equal(t, tt.open, open)
		})
	}
}

func TestClassifySection(t *testing.T) {
	assert.Equal(t, models.SectionLab, ClassifySection("A01-LAB"))
	assert.Equal(t, models.SectionDiscussion, ClassifySection("B02-DGD"))
	assert.Equal(t, models.SectionTutorial, ClassifySection("C-TUT"))
	assert.Equal(t, models.SectionLecture, ClassifySection("A00-LEC"))
	assert.Equal(t, models.SectionLecture, ClassifySection("A01"))
	assert.Equal(t, models.SectionSeminar, ClassifySection("sem 1"))
}

func TestSectionGroup(t *testing.T) {
	assert.Equal(t, "A", SectionGroup("A01-LEC"))
	assert.Equal(t, "B", SectionGroup("b02-LAB"))
	assert.Equal(t, "A", SectionGroup(""))
}

func TestCourseCodeHelpers(t *testing.T) {
	assert.Equal(t, "CSI2110", NormalizeCourseCode("csi 2110"))
	assert.Equal(t, "GNG 2101", SpacedCourseCode("GNG2101"))
	assert.Equal(t, "ABC", SpacedCourseCode("ABC"))

	subject, number := SplitCourseCode("MAT 1341")
	assert.Equal(t, "MAT", subject)
	assert.Equal(t, 1341, number)

	subject, number = SplitCourseCode("ELECTIVE")
	assert.Equal(t, "ELECTIVE", subject)
	assert.Equal(t, -1, number)
}

func TestCurriculumEntryHelpers(t *testing.T) {
	assert.Equal(t, "CSI2110", EntryCode("CSI2110 | Data Structures"))
	assert.Equal(t, "MAT1341", EntryCode("MAT1341"))
	assert.True(t, IsElectivePlaceholder("Elective: Arts"))
	assert.True(t, IsElectivePlaceholder(" ELECTIVE (any faculty) "))
	assert.False(t, IsElectivePlaceholder("CSI2110"))
}
