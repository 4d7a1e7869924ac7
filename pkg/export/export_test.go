package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timetableDataset() Dataset {
	return Dataset{
		Headers: []string{"Course", "Day", "Start", "End", "Location"},
		Rows: []map[string]string{
			{"Course": "CSI2110", "Day": "Monday", "Start": "10:00", "End": "11:20", "Location": "STE B0138"},
			{"Course": "MAT1341", "Day": "Tuesday", "Start": "08:30", "End": "09:50", "Location": "MRN 150"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(timetableDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Course,Day,Start,End,Location", lines[0])
	assert.Contains(t, lines[1], "CSI2110")
	assert.Contains(t, lines[2], "MAT1341")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(timetableDataset(), "Fall Timetable")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}
