package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/oumizumi/kairo-api/internal/catalog"
	"github.com/oumizumi/kairo-api/internal/models"
	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
)

type calendarRepository interface {
	List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error)
	GetByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, userID, id string) error
	Replace(ctx context.Context, userID string, start, end time.Time, events []models.CalendarEvent) (int, error)
	DeleteRange(ctx context.Context, userID string, start, end time.Time) (int, error)
}

// CalendarService manages per-user calendar events and turns selected
// sections into weekly event rows.
type CalendarService struct {
	repo      calendarRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(repo calendarRepository, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{repo: repo, validator: validate, logger: logger}
}

// BuildEvents expands selected sections into calendar event rows: one row
// per section per meeting day, bounded by the term's dates, recurring weekly.
// Sections without a parsed meeting pattern produce nothing.
func BuildEvents(userID string, term models.Term, academicYear int, sections []models.Section) []models.CalendarEvent {
	dates := models.DatesFor(term, academicYear)
	var events []models.CalendarEvent
	for _, section := range sections {
		if !section.HasMeetingPattern() {
			continue
		}
		display := catalog.SpacedCourseCode(section.CourseCode)
		title := display
		if section.CourseTitle != "" {
			title = fmt.Sprintf("%s - %s", display, section.CourseTitle)
		}
		description := fmt.Sprintf("Course: %s\nSection: %s\nType: %s\nInstructor: %s\nTerm: %s",
			section.CourseCode, section.SectionLabel, section.Type, section.Instructor, term)
		for _, day := range section.Days {
			events = append(events, models.CalendarEvent{
				UserID:            userID,
				Title:             title,
				StartTime:         section.Time.StartClock(),
				EndTime:           section.Time.EndClock(),
				DayOfWeek:         string(day),
				StartDate:         dates.Start,
				EndDate:           dates.End,
				Description:       description,
				Instructor:        section.Instructor,
				Location:          section.Location,
				RecurrencePattern: models.RecurrenceWeekly,
				Theme:             models.DefaultEventTheme,
			})
		}
	}
	return events
}

// Materialize replaces the user's weekly events for the term with rows built
// from the selected sections. Clearing and inserting happen in one
// transaction, so rerunning with the same selection yields the same row
// count instead of accumulating duplicates. A store failure is the one
// condition that aborts: reporting success over a failed write would lie.
func (s *CalendarService) Materialize(ctx context.Context, userID string, term models.Term, academicYear int, sections []models.Section) ([]models.CalendarEvent, int, error) {
	events := BuildEvents(userID, term, academicYear, sections)
	dates := models.DatesFor(term, academicYear)
	count, err := s.repo.Replace(ctx, userID, dates.Start, dates.End, events)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to write schedule to calendar")
	}
	s.logger.Info("materialized schedule",
		zap.String("user_id", userID),
		zap.String("term", string(term)),
		zap.Int("events", count))
	return events, count, nil
}

// ClearTerm removes the user's weekly events for the term.
func (s *CalendarService) ClearTerm(ctx context.Context, userID string, term models.Term, academicYear int) (int, error) {
	dates := models.DatesFor(term, academicYear)
	count, err := s.repo.DeleteRange(ctx, userID, dates.Start, dates.End)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to clear calendar term")
	}
	return count, nil
}

// CalendarListRequest describes filters for listing a user's events.
type CalendarListRequest struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
}

// CreateCalendarEventRequest describes a manual event create payload.
type CreateCalendarEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required"`
	EndTime     string    `json:"end_time" validate:"required"`
	DayOfWeek   string    `json:"day_of_week" validate:"required"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Description string    `json:"description"`
	Instructor  string    `json:"instructor"`
	Location    string    `json:"location"`
	Theme       string    `json:"theme"`
}

// List returns a user's calendar events.
func (s *CalendarService) List(ctx context.Context, userID string, req CalendarListRequest) ([]models.CalendarEvent, *models.Pagination, error) {
	filter := models.CalendarFilter{
		UserID:    userID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 100
	}
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendar events")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return events, pagination, nil
}

// Get returns one event, scoped to its owner.
func (s *CalendarService) Get(ctx context.Context, userID, id string) (*models.CalendarEvent, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get event")
	}
	if event.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "event belongs to another user")
	}
	return event, nil
}

// Create registers a manual event on the user's calendar.
func (s *CalendarService) Create(ctx context.Context, userID string, req CreateCalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be on or after start_date")
	}
	event := &models.CalendarEvent{
		UserID:      userID,
		Title:       req.Title,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		DayOfWeek:   req.DayOfWeek,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		Instructor:  req.Instructor,
		Location:    req.Location,
		Theme:       req.Theme,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	return event, nil
}

// Update modifies an event the user owns.
func (s *CalendarService) Update(ctx context.Context, userID, id string, req CreateCalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	event, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	event.Title = req.Title
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.DayOfWeek = req.DayOfWeek
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.Description = req.Description
	event.Instructor = req.Instructor
	event.Location = req.Location
	if req.Theme != "" {
		event.Theme = req.Theme
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	return event, nil
}

// Delete removes one event the user owns.
func (s *CalendarService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	return nil
}
