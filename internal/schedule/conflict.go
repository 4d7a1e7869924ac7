// Package schedule implements the greedy section selection engine: given
// candidate sections per course it commits at most one section per course
// (or one full component group, in grouped mode) with no day/time overlap.
package schedule

import "github.com/oumizumi/kairo-api/internal/models"

// Conflicts reports whether two sections collide: they share at least one
// meeting day and their time ranges overlap. Ranges are half-open, so a
// section ending at 10:00 does not conflict with one starting at 10:00.
// Sections without a parsed meeting pattern never conflict.
func Conflicts(a, b *models.Section) bool {
	if a == nil || b == nil {
		return false
	}
	if !a.HasMeetingPattern() || !b.HasMeetingPattern() {
		return false
	}
	if !a.SharesDay(b) {
		return false
	}
	return a.Time.Overlaps(*b.Time)
}

// conflictsWithAny checks one candidate against the running committed set.
func conflictsWithAny(candidate *models.Section, committed []models.Section) bool {
	for i := range committed {
		if Conflicts(candidate, &committed[i]) {
			return true
		}
	}
	return false
}
