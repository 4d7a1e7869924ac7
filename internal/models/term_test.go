package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Term
	}{
		{name: "fall", raw: "fall", want: TermFall},
		{name: "autumn alias", raw: "Autumn", want: TermFall},
		{name: "winter", raw: " Winter ", want: TermWinter},
		{name: "summer", raw: "summer", want: TermSummer},
		{name: "spring is the summer session", raw: "spring", want: TermSummer},
		{name: "spring-summer", raw: "Spring/Summer", want: TermSummer},
		{name: "unknown label capitalized", raw: "intersession", want: Term("Intersession")},
		{name: "empty", raw: "", want: Term("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTerm(tt.raw))
		})
	}
}

func TestDatesForSessions(t *testing.T) {
	fall := DatesFor(TermFall, 2025)
	assert.Equal(t, time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC), fall.Start)
	assert.Equal(t, time.Date(2025, time.December, 2, 0, 0, 0, 0, time.UTC), fall.End)

	winter := DatesFor(TermWinter, 2025)
	assert.Equal(t, 2026, winter.Start.Year())
	assert.Equal(t, time.January, winter.Start.Month())

	summer := DatesFor(TermSummer, 2025)
	assert.Equal(t, time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC), summer.Start)
	assert.Equal(t, time.Date(2026, time.July, 29, 0, 0, 0, 0, time.UTC), summer.End)

	// A normalized spring mention must land on the summer session dates,
	// not on an unknown term's fall default.
	assert.Equal(t, summer, DatesFor(NormalizeTerm("spring"), 2025))
}
