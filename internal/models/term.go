package models

import (
	"strings"
	"time"
)

// Term is an academic session.
type Term string

const (
	TermFall   Term = "Fall"
	TermWinter Term = "Winter"
	TermSummer Term = "Summer"
)

// AllTerms lists the sessions a full academic year is scheduled across.
func AllTerms() []Term {
	return []Term{TermFall, TermWinter, TermSummer}
}

// NormalizeTerm maps free-form term labels onto a canonical Term. Spring is
// the same session as Summer here; curriculum and catalog data only key
// Fall, Winter and Summer.
func NormalizeTerm(raw string) Term {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fall", "autumn":
		return TermFall
	case "winter":
		return TermWinter
	case "spring", "summer", "spring-summer", "spring/summer":
		return TermSummer
	default:
		cleaned := strings.ToLower(strings.TrimSpace(raw))
		if cleaned == "" {
			return ""
		}
		return Term(strings.ToUpper(cleaned[:1]) + cleaned[1:])
	}
}

// TermDates bounds a term on the calendar.
type TermDates struct {
	Start time.Time
	End   time.Time
}

// DatesFor returns the fixed date range of a term in the given academic year.
// Winter and Spring/Summer sessions belong to the following calendar year.
func DatesFor(term Term, academicYear int) TermDates {
	switch term {
	case TermWinter:
		return TermDates{
			Start: time.Date(academicYear+1, time.January, 12, 0, 0, 0, 0, time.UTC),
			End:   time.Date(academicYear+1, time.April, 15, 0, 0, 0, 0, time.UTC),
		}
	case TermSummer:
		return TermDates{
			Start: time.Date(academicYear+1, time.May, 5, 0, 0, 0, 0, time.UTC),
			End:   time.Date(academicYear+1, time.July, 29, 0, 0, 0, 0, time.UTC),
		}
	default: // Fall
		return TermDates{
			Start: time.Date(academicYear, time.September, 3, 0, 0, 0, 0, time.UTC),
			End:   time.Date(academicYear, time.December, 2, 0, 0, 0, 0, time.UTC),
		}
	}
}
