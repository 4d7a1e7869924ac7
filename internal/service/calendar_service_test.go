package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oumizumi/kairo-api/internal/models"
	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
)

type stubCalendarRepo struct {
	events       map[string]*models.CalendarEvent
	replaced     []models.CalendarEvent
	replaceStart time.Time
	replaceEnd   time.Time
	replaceCalls int
	deletedRange int
	replaceErr   error
}

func newStubCalendarRepo() *stubCalendarRepo {
	return &stubCalendarRepo{events: map[string]*models.CalendarEvent{}}
}

func (s *stubCalendarRepo) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	var out []models.CalendarEvent
	for _, event := range s.events {
		if event.UserID == filter.UserID {
			out = append(out, *event)
		}
	}
	return out, len(out), nil
}

func (s *stubCalendarRepo) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return event, nil
}

func (s *stubCalendarRepo) Create(ctx context.Context, event *models.CalendarEvent) error {
	if event.ID == "" {
		event.ID = "evt-1"
	}
	s.events[event.ID] = event
	return nil
}

func (s *stubCalendarRepo) Update(ctx context.Context, event *models.CalendarEvent) error {
	s.events[event.ID] = event
	return nil
}

func (s *stubCalendarRepo) Delete(ctx context.Context, userID, id string) error {
	delete(s.events, id)
	return nil
}

func (s *stubCalendarRepo) Replace(ctx context.Context, userID string, start, end time.Time, events []models.CalendarEvent) (int, error) {
	if s.replaceErr != nil {
		return 0, s.replaceErr
	}
	s.replaceCalls++
	s.replaced = events
	s.replaceStart = start
	s.replaceEnd = end
	return len(events), nil
}

func (s *stubCalendarRepo) DeleteRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	s.deletedRange++
	return 4, nil
}

func fallSection() models.Section {
	return models.Section{
		CourseCode:   "CSI2110",
		SectionLabel: "A01-LEC",
		Type:         models.SectionLecture,
		Group:        "A",
		Days:         []models.Weekday{models.Monday, models.Wednesday},
		Time:         &models.TimeRange{Start: 600, End: 690},
		Instructor:   "L. Moura",
		Location:     "STE B0138",
		CourseTitle:  "Data Structures",
		IsOpen:       true,
	}
}

func TestMaterializeReplacesTermRange(t *testing.T) {
	repo := newStubCalendarRepo()
	svc := NewCalendarService(repo, nil, nil)

	events, count, err := svc.Materialize(context.Background(), "user-1", models.TermFall, 2025, []models.Section{fallSection()})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, events, 2)
	assert.Equal(t, time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC), repo.replaceStart)
	assert.Equal(t, time.Date(2025, time.December, 2, 0, 0, 0, 0, time.UTC), repo.replaceEnd)
}

func TestMaterializeIdempotentCount(t *testing.T) {
	repo := newStubCalendarRepo()
	svc := NewCalendarService(repo, nil, nil)
	sections := []models.Section{fallSection()}

	_, first, err := svc.Materialize(context.Background(), "user-1", models.TermFall, 2025, sections)
	require.NoError(t, err)
	_, second, err := svc.Materialize(context.Background(), "user-1", models.TermFall, 2025, sections)
	require.NoError(t, err)

	// Replace clears before writing, so the count never accumulates.
	assert.Equal(t, first, second)
	assert.Equal(t, 2, repo.replaceCalls)
	assert.Len(t, repo.replaced, first)
}

func TestMaterializeWrapsStoreFailure(t *testing.T) {
	repo := newStubCalendarRepo()
	repo.replaceErr = assert.AnError
	svc := NewCalendarService(repo, nil, nil)

	_, _, err := svc.Materialize(context.Background(), "user-1", models.TermFall, 2025, []models.Section{fallSection()})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPersistence.Code, appErrors.FromError(err).Code)
}

func TestClearTerm(t *testing.T) {
	repo := newStubCalendarRepo()
	svc := NewCalendarService(repo, nil, nil)

	count, err := svc.ClearTerm(context.Background(), "user-1", models.TermWinter, 2025)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, 1, repo.deletedRange)
}

func TestCalendarCRUDOwnership(t *testing.T) {
	repo := newStubCalendarRepo()
	svc := NewCalendarService(repo, nil, nil)

	created, err := svc.Create(context.Background(), "user-1", CreateCalendarEventRequest{
		Title:     "Gym",
		StartTime: "17:00",
		EndTime:   "18:00",
		DayOfWeek: "Tuesday",
		StartDate: time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.December, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = svc.Get(context.Background(), "user-2", created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	got, err := svc.Get(context.Background(), "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gym", got.Title)

	_, err = svc.Get(context.Background(), "user-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCalendarCreateValidatesPayload(t *testing.T) {
	svc := NewCalendarService(newStubCalendarRepo(), nil, nil)

	_, err := svc.Create(context.Background(), "user-1", CreateCalendarEventRequest{Title: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
