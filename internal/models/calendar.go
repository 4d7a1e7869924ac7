package models

import "time"

// RecurrenceWeekly is the recurrence pattern used for course meetings.
const RecurrenceWeekly = "weekly"

// DefaultEventTheme is applied to generated course events.
const DefaultEventTheme = "blue-gradient"

// CalendarEvent is one persisted calendar entry for one weekday of a course
// section (one row per chosen section per meeting day).
type CalendarEvent struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	Title             string    `db:"title" json:"title"`
	StartTime         string    `db:"start_time" json:"start_time"`
	EndTime           string    `db:"end_time" json:"end_time"`
	DayOfWeek         string    `db:"day_of_week" json:"day_of_week"`
	StartDate         time.Time `db:"start_date" json:"start_date"`
	EndDate           time.Time `db:"end_date" json:"end_date"`
	Description       string    `db:"description" json:"description"`
	Instructor        string    `db:"instructor" json:"instructor"`
	Location          string    `db:"location" json:"location"`
	RecurrencePattern string    `db:"recurrence_pattern" json:"recurrence_pattern"`
	Theme             string    `db:"theme" json:"theme"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// CalendarFilter narrows down a user's events.
type CalendarFilter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}
