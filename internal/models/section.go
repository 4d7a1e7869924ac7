package models

import (
	"fmt"
	"strings"
)

// SectionType classifies a course component.
type SectionType string

const (
	SectionLecture    SectionType = "LEC"
	SectionLab        SectionType = "LAB"
	SectionDiscussion SectionType = "DGD"
	SectionTutorial   SectionType = "TUT"
	SectionSeminar    SectionType = "SEM"
	SectionWorkshop   SectionType = "WRK"
	SectionStudio     SectionType = "STU"
)

// Weekday is a full English day name ("Monday").
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// TimeRange is a meeting window expressed in minutes since midnight.
// End is exclusive: a section ending at 10:00 does not collide with one
// starting at 10:00.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two windows share any time.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return !(t.End <= other.Start || other.End <= t.Start)
}

// StartClock renders the start as "HH:MM".
func (t TimeRange) StartClock() string {
	return fmt.Sprintf("%02d:%02d", t.Start/60, t.Start%60)
}

// EndClock renders the end as "HH:MM".
func (t TimeRange) EndClock() string {
	return fmt.Sprintf("%02d:%02d", t.End/60, t.End%60)
}

func (t TimeRange) String() string {
	return t.StartClock() + "-" + t.EndClock()
}

// Section is one offered section of one course in one term. Days and Time are
// nil/empty when the source data could not be parsed; such sections cannot be
// scheduled against and never conflict.
type Section struct {
	CourseCode   string      `json:"courseCode"`
	SectionLabel string      `json:"section"`
	Type         SectionType `json:"type"`
	Group        string      `json:"group"`
	Days         []Weekday   `json:"days"`
	Time         *TimeRange  `json:"time,omitempty"`
	Instructor   string      `json:"instructor"`
	Location     string      `json:"location"`
	CourseTitle  string      `json:"courseTitle"`
	Status       string      `json:"status"`
	IsOpen       bool        `json:"isOpen"`
	Term         Term        `json:"term"`
}

// IsRemote reports whether the section has no physical room: online delivery
// or a location still marked TBA.
func (s *Section) IsRemote() bool {
	location := strings.ToUpper(strings.TrimSpace(s.Location))
	return location == "TBA" ||
		strings.Contains(location, "ONLINE") || strings.Contains(location, "VIRTUAL")
}

// HasMeetingPattern reports whether the section carries parsed days and times.
func (s *Section) HasMeetingPattern() bool {
	return s.Time != nil && len(s.Days) > 0
}

// SharesDay reports whether two sections meet on at least one common day.
func (s *Section) SharesDay(other *Section) bool {
	for _, a := range s.Days {
		for _, b := range other.Days {
			if a == b {
				return true
			}
		}
	}
	return false
}
