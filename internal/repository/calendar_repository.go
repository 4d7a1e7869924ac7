package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/oumizumi/kairo-api/internal/models"
)

const calendarColumns = `id, user_id, title, start_time, end_time, day_of_week, start_date, end_date,
description, instructor, location, recurrence_pattern, theme, created_at, updated_at`

const calendarInsert = `INSERT INTO calendar_events (id, user_id, title, start_time, end_time, day_of_week, start_date, end_date,
description, instructor, location, recurrence_pattern, theme, created_at, updated_at)
VALUES (:id, :user_id, :title, :start_time, :end_time, :day_of_week, :start_date, :end_date,
:description, :instructor, :location, :recurrence_pattern, :theme, :created_at, :updated_at)`

// CalendarRepository persists per-user calendar events.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a calendar repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// List returns a user's calendar events matching filters.
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	base := "FROM calendar_events"
	where := []string{"user_id = $1"}
	args := []interface{}{filter.UserID}
	if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("end_date >= $%d", len(args)+1))
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("start_date <= $%d", len(args)+1))
		args = append(args, *filter.EndDate)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s
%s WHERE %s ORDER BY day_of_week ASC, start_time ASC LIMIT %d OFFSET %d`, calendarColumns, base, whereClause, size, offset)
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list calendar events: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count calendar events: %w", err)
	}
	return events, total, nil
}

// GetByID fetches one event.
func (r *CalendarRepository) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	query := fmt.Sprintf("SELECT %s FROM calendar_events WHERE id = $1", calendarColumns)
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a single event.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	stampEvent(event)
	if _, err := r.db.NamedExecContext(ctx, calendarInsert, event); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}

// Replace clears a user's weekly events inside the date range and inserts
// the given events in the same transaction, so a failed regeneration never
// leaves a half-written schedule. Returns the number of rows inserted.
func (r *CalendarRepository) Replace(ctx context.Context, userID string, start, end time.Time, events []models.CalendarEvent) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace calendar: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const clear = `DELETE FROM calendar_events
WHERE user_id = $1 AND recurrence_pattern = $2 AND start_date >= $3 AND end_date <= $4`
	if _, err := tx.ExecContext(ctx, clear, userID, models.RecurrenceWeekly, start, end); err != nil {
		return 0, fmt.Errorf("clear calendar range: %w", err)
	}

	for i := range events {
		events[i].UserID = userID
		stampEvent(&events[i])
		if _, err := tx.NamedExecContext(ctx, calendarInsert, &events[i]); err != nil {
			return 0, fmt.Errorf("insert calendar event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace calendar: %w", err)
	}
	return len(events), nil
}

// DeleteRange removes a user's weekly events inside the date range and
// returns the number of rows removed.
func (r *CalendarRepository) DeleteRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	const query = `DELETE FROM calendar_events
WHERE user_id = $1 AND recurrence_pattern = $2 AND start_date >= $3 AND end_date <= $4`
	res, err := r.db.ExecContext(ctx, query, userID, models.RecurrenceWeekly, start, end)
	if err != nil {
		return 0, fmt.Errorf("delete calendar range: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete calendar range: %w", err)
	}
	return int(count), nil
}

// Update modifies an event.
func (r *CalendarRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE calendar_events SET title = :title, start_time = :start_time, end_time = :end_time,
day_of_week = :day_of_week, start_date = :start_date, end_date = :end_date, description = :description,
instructor = :instructor, location = :location, recurrence_pattern = :recurrence_pattern, theme = :theme,
updated_at = :updated_at
WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	return nil
}

// Delete removes one event owned by the user.
func (r *CalendarRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM calendar_events WHERE id = $1 AND user_id = $2", id, userID); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

func stampEvent(event *models.CalendarEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	if event.RecurrencePattern == "" {
		event.RecurrencePattern = models.RecurrenceWeekly
	}
	if event.Theme == "" {
		event.Theme = models.DefaultEventTheme
	}
}
