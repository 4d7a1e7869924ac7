package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/oumizumi/kairo-api/internal/catalog"
	"github.com/oumizumi/kairo-api/internal/models"
	"github.com/oumizumi/kairo-api/internal/schedule"
	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
)

type curriculumProvider interface {
	RequiredCourses(ctx context.Context, program string, year int, term string) ([]string, error)
	ElectivePlaceholders(ctx context.Context, program string, year int, term string) ([]string, error)
	Reload()
}

type catalogProvider interface {
	Get(ctx context.Context, term models.Term) catalog.Catalog
	Invalidate(ctx context.Context, term models.Term)
	InvalidateAll(ctx context.Context)
}

type calendarWriter interface {
	Materialize(ctx context.Context, userID string, term models.Term, academicYear int, sections []models.Section) ([]models.CalendarEvent, int, error)
	ClearTerm(ctx context.Context, userID string, term models.Term, academicYear int) (int, error)
}

// ScheduleService orchestrates one generation run: curriculum lookup,
// catalog load, fuzzy code resolution, greedy selection and calendar
// materialization. Missing data and unschedulable courses degrade into the
// reported summary; only calendar write failures abort.
type ScheduleService struct {
	curriculum   curriculumProvider
	catalogs     catalogProvider
	calendar     calendarWriter
	selector     *schedule.Selector
	grouped      bool
	academicYear int
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewScheduleService constructs the orchestrator. grouped selects the
// all-or-nothing component-group strategy used for courses with coordinated
// lecture/lab/discussion sections.
func NewScheduleService(curriculum curriculumProvider, catalogs catalogProvider, calendar calendarWriter, selector *schedule.Selector, grouped bool, academicYear int, logger *zap.Logger) *ScheduleService {
	if selector == nil {
		selector = schedule.NewSelector(nil, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		curriculum:   curriculum,
		catalogs:     catalogs,
		calendar:     calendar,
		selector:     selector,
		grouped:      grouped,
		academicYear: academicYear,
		validator:    validator.New(),
		logger:       logger,
	}
}

// GenerateRequest describes one schedule generation call. An empty Term
// schedules the full academic year.
type GenerateRequest struct {
	Program          string   `json:"program" validate:"required"`
	Year             int      `json:"year" validate:"required,min=1,max=6"`
	Term             string   `json:"term"`
	Preference       string   `json:"preference" validate:"omitempty,oneof=morning afternoon evening"`
	Avoid            []string `json:"avoid_sections"`
	AvoidDays        []string `json:"avoid_days"`
	AvoidInstructors []string `json:"avoid_instructors"`
	EarliestStart    string   `json:"earliest_start" validate:"omitempty,datetime=15:04"`
	LatestEnd        string   `json:"latest_end" validate:"omitempty,datetime=15:04"`
}

// TermSummary is the per-term outcome reported back to the client.
type TermSummary struct {
	Term             models.Term                 `json:"term"`
	Success          bool                        `json:"success"`
	Message          string                      `json:"message"`
	Scheduled        []string                    `json:"scheduled"`
	Unscheduled      []string                    `json:"unscheduled"`
	Electives        []string                    `json:"electives"`
	MatchedCourses   map[string]string           `json:"matched_courses"`
	UnmatchedCourses []string                    `json:"unmatched_courses"`
	EventsCreated    int                         `json:"events_created"`
	Events           []models.CalendarEvent      `json:"events"`
	Sections         map[string][]models.Section `json:"sections"`
}

// GenerateResult aggregates every processed term.
type GenerateResult struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	Terms         []TermSummary `json:"terms"`
	EventsCreated int           `json:"events_created"`
}

// Generate builds and persists a schedule for the given user. A term with no
// usable data yields a failed TermSummary rather than an error; the returned
// error is non-nil only for persistence failures and invalid requests.
func (s *ScheduleService) Generate(ctx context.Context, userID string, req GenerateRequest) (*GenerateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate request")
	}

	terms := models.AllTerms()
	if strings.TrimSpace(req.Term) != "" {
		terms = []models.Term{models.NormalizeTerm(req.Term)}
	}

	result := &GenerateResult{}
	for _, term := range terms {
		summary, err := s.generateTerm(ctx, userID, term, req)
		if err != nil {
			return nil, err
		}
		result.Terms = append(result.Terms, *summary)
		result.EventsCreated += summary.EventsCreated
		if summary.Success {
			result.Success = true
		}
	}
	result.Message = overallMessage(result.Terms)
	return result, nil
}

func (s *ScheduleService) generateTerm(ctx context.Context, userID string, term models.Term, req GenerateRequest) (*TermSummary, error) {
	summary := &TermSummary{
		Term:           term,
		MatchedCourses: map[string]string{},
		Sections:       map[string][]models.Section{},
	}

	required, err := s.curriculum.RequiredCourses(ctx, req.Program, req.Year, string(term))
	if err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) && typed.Code != appErrors.ErrInternal.Code {
			summary.Message = fmt.Sprintf("No curriculum found for %s year %d, %s term.", req.Program, req.Year, term)
			s.logger.Warn("curriculum lookup failed",
				zap.String("program", req.Program), zap.String("term", string(term)), zap.Error(err))
			return summary, nil
		}
		return nil, err
	}
	summary.Electives, _ = s.curriculum.ElectivePlaceholders(ctx, req.Program, req.Year, string(term))

	if len(required) == 0 {
		summary.Success = true
		summary.Message = fmt.Sprintf("No required courses for the %s term.", term)
		return summary, nil
	}

	offerings := s.catalogs.Get(ctx, term)
	if len(offerings) == 0 {
		for _, entry := range required {
			summary.Unscheduled = append(summary.Unscheduled, catalog.EntryCode(entry))
		}
		summary.Message = fmt.Sprintf("No course data is available for the %s term.", term)
		return summary, nil
	}

	candidates := map[string][]models.Section{}
	for _, entry := range required {
		requested := catalog.NormalizeCourseCode(catalog.EntryCode(entry))
		resolved := catalog.Resolve(requested, offerings)
		if resolved == "" {
			summary.UnmatchedCourses = append(summary.UnmatchedCourses, requested)
			summary.Unscheduled = append(summary.Unscheduled, requested)
			continue
		}
		summary.MatchedCourses[requested] = resolved
		candidates[resolved] = offerings[resolved]
	}

	opts := selectionOptions(req)

	var selection *schedule.Selection
	if s.grouped {
		selection = s.selector.SelectGrouped(candidates, opts)
	} else {
		selection = s.selector.SelectSimple(candidates, opts)
	}
	summary.Sections = selection.Sections
	summary.Unscheduled = append(summary.Unscheduled, selection.Unscheduled...)
	for code := range selection.Sections {
		summary.Scheduled = append(summary.Scheduled, code)
	}

	events, count, err := s.calendar.Materialize(ctx, userID, term, s.academicYear, selection.Committed())
	if err != nil {
		return nil, err
	}
	summary.Events = events
	summary.EventsCreated = count
	summary.Success = len(summary.Scheduled) > 0
	summary.Message = termMessage(summary)

	s.logger.Info("generated term schedule",
		zap.String("user_id", userID),
		zap.String("term", string(term)),
		zap.Int("scheduled", len(summary.Scheduled)),
		zap.Int("unscheduled", len(summary.Unscheduled)),
		zap.Int("events", count))
	return summary, nil
}

// Clear removes the user's generated events. An empty term clears the whole
// academic year.
func (s *ScheduleService) Clear(ctx context.Context, userID, term string) (int, error) {
	terms := models.AllTerms()
	if strings.TrimSpace(term) != "" {
		terms = []models.Term{models.NormalizeTerm(term)}
	}
	total := 0
	for _, t := range terms {
		count, err := s.calendar.ClearTerm(ctx, userID, t, s.academicYear)
		if err != nil {
			return total, err
		}
		total += count
	}
	return total, nil
}

// RefreshCatalog invalidates cached course data, forcing the next generation
// to re-read scraper output. An empty term drops every cached term. The
// curriculum table is re-read too, since the scraper refreshes both.
func (s *ScheduleService) RefreshCatalog(ctx context.Context, term string) {
	s.curriculum.Reload()
	if strings.TrimSpace(term) == "" {
		s.catalogs.InvalidateAll(ctx)
		return
	}
	s.catalogs.Invalidate(ctx, models.NormalizeTerm(term))
}

// selectionOptions translates request constraints into selector options.
// Day names go through the same tolerant parser the loader uses, so
// "Mon", "Monday" and "Mo" all work.
func selectionOptions(req GenerateRequest) schedule.Options {
	opts := schedule.Options{
		AvoidInstructors: req.AvoidInstructors,
		EarliestStart:    clockMinutes(req.EarliestStart),
		LatestEnd:        clockMinutes(req.LatestEnd),
		Preference:       schedule.TimePreference(req.Preference),
	}
	if len(req.Avoid) > 0 {
		opts.Avoid = map[string]bool{}
		for _, key := range req.Avoid {
			opts.Avoid[key] = true
		}
	}
	if len(req.AvoidDays) > 0 {
		opts.AvoidDays = map[models.Weekday]bool{}
		for _, day := range catalog.ParseDays(req.AvoidDays) {
			opts.AvoidDays[day] = true
		}
	}
	return opts
}

func clockMinutes(clock string) int {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

func termMessage(summary *TermSummary) string {
	var parts []string
	if len(summary.Scheduled) > 0 {
		parts = append(parts, fmt.Sprintf("Scheduled %d course(s) for %s: %s.",
			len(summary.Scheduled), summary.Term, strings.Join(sortedCopy(summary.Scheduled), ", ")))
	}
	if len(summary.Unscheduled) > 0 {
		parts = append(parts, fmt.Sprintf("Could not auto-schedule: %s. Resolve these manually.",
			strings.Join(sortedCopy(summary.Unscheduled), ", ")))
	}
	if len(summary.Electives) > 0 {
		parts = append(parts, fmt.Sprintf("Pick %d elective(s) yourself: %s.",
			len(summary.Electives), strings.Join(summary.Electives, ", ")))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Nothing to schedule for the %s term.", summary.Term)
	}
	return strings.Join(parts, " ")
}

func overallMessage(terms []TermSummary) string {
	var parts []string
	for _, summary := range terms {
		parts = append(parts, summary.Message)
	}
	return strings.Join(parts, " ")
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
