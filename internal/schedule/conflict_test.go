package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oumizumi/kairo-api/internal/models"
)

func section(code, label string, days []models.Weekday, start, end int) models.Section {
	return models.Section{
		CourseCode:   code,
		SectionLabel: label,
		Type:         models.SectionLecture,
		Group:        label[:1],
		Days:         days,
		Time:         &models.TimeRange{Start: start, End: end},
		IsOpen:       true,
		Location:     "STE B0138",
	}
}

func TestConflicts(t *testing.T) {
	monWed := []models.Weekday{models.Monday, models.Wednesday}
	tueThu := []models.Weekday{models.Tuesday, models.Thursday}

	tests := []struct {
		name string
		a, b models.Section
		want bool
	}{
		{
			name: "overlap on shared day",
			a:    section("A", "A01", monWed, 510, 600),
			b:    section("B", "A01", monWed, 570, 660),
			want: true,
		},
		{
			name: "one minute overlap",
			a:    section("A", "A01", monWed, 510, 600),
			b:    section("B", "A01", monWed, 599, 660),
			want: true,
		},
		{
			name: "touching endpoints do not conflict",
			a:    section("A", "A01", monWed, 510, 600),
			b:    section("B", "A01", monWed, 600, 660),
			want: false,
		},
		{
			name: "identical times on disjoint days",
			a:    section("A", "A01", monWed, 510, 600),
			b:    section("B", "A01", tueThu, 510, 600),
			want: false,
		},
		{
			name: "contained interval",
			a:    section("A", "A01", monWed, 480, 720),
			b:    section("B", "A01", []models.Weekday{models.Wednesday}, 540, 600),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Conflicts(&tt.a, &tt.b))
			// Symmetry must hold for every pair.
			assert.Equal(t, Conflicts(&tt.a, &tt.b), Conflicts(&tt.b, &tt.a))
		})
	}
}

func TestConflictsMissingPattern(t *testing.T) {
	full := section("A", "A01", []models.Weekday{models.Monday}, 510, 600)

	noTime := full
	noTime.Time = nil
	assert.False(t, Conflicts(&full, &noTime))

	noDays := full
	noDays.Days = nil
	assert.False(t, Conflicts(&full, &noDays))

	assert.False(t, Conflicts(nil, &full))
	assert.False(t, Conflicts(&full, nil))
}
