package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/oumizumi/kairo-api/internal/models"
)

const combinedCatalogFile = "all_courses_by_term.json"

// Catalog is the in-memory course offering table for one term, keyed by
// normalized course code.
type Catalog map[string][]models.Section

// Codes returns every course code present, in no particular order.
func (c Catalog) Codes() []string {
	codes := make([]string, 0, len(c))
	for code := range c {
		codes = append(codes, code)
	}
	return codes
}

// Loader reads scraped timetable JSON from disk. Files are produced by an
// external scraper and their shape drifts between runs, so every field is
// read through alias lists and total parsers. A loader never fails hard:
// missing or corrupt data yields an empty catalog and a log line.
type Loader struct {
	dirs   []string
	logger *zap.Logger
}

func NewLoader(dirs []string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dirs: dirs, logger: logger}
}

// Load returns the catalog for the given term. It prefers the combined
// term-keyed file and falls back to a per-term file named after the term slug.
func (l *Loader) Load(ctx context.Context, term models.Term) Catalog {
	if err := ctx.Err(); err != nil {
		return Catalog{}
	}
	for _, dir := range l.dirs {
		combined := filepath.Join(dir, combinedCatalogFile)
		if catalog, ok := l.loadCombined(combined, term); ok {
			return catalog
		}
		perTerm := filepath.Join(dir, perTermFileName(term))
		if catalog, ok := l.loadFlat(perTerm, term); ok {
			return catalog
		}
	}
	l.logger.Warn("no catalog data found for term",
		zap.String("term", string(term)),
		zap.Strings("dirs", l.dirs))
	return Catalog{}
}

func perTermFileName(term models.Term) string {
	slug := strings.ToLower(strings.ReplaceAll(string(term), " ", "_"))
	return fmt.Sprintf("all_courses_%s.json", slug)
}

func (l *Loader) loadCombined(path string, term models.Term) (Catalog, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var byTerm map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byTerm); err != nil {
		l.logger.Warn("combined catalog file is not a term map",
			zap.String("path", path), zap.Error(err))
		return nil, false
	}
	key, ok := matchTermKey(byTerm, term)
	if !ok {
		return nil, false
	}
	catalog := l.decodeSections(byTerm[key], term, path)
	return catalog, true
}

// matchTermKey finds the file's key for the requested term by substring
// match ("fall" matches "Fall 2025 (2259)"). If several keys match, the one
// with the most recent embedded year wins.
func matchTermKey(byTerm map[string]json.RawMessage, term models.Term) (string, bool) {
	needle := strings.ToLower(string(term))
	best := ""
	bestYear := -1
	for key := range byTerm {
		if !strings.Contains(strings.ToLower(key), needle) {
			continue
		}
		year := embeddedYear(key)
		if year > bestYear || (year == bestYear && key < best) {
			best = key
			bestYear = year
		}
	}
	return best, best != ""
}

func (l *Loader) loadFlat(path string, term models.Term) (Catalog, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var records json.RawMessage = raw
	catalog := l.decodeSections(records, term, path)
	return catalog, true
}

func (l *Loader) decodeSections(raw json.RawMessage, term models.Term, path string) Catalog {
	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		// Some scraper runs wrap the list in {"courses": [...]}.
		var wrapper struct {
			Courses []map[string]interface{} `json:"courses"`
		}
		if err2 := json.Unmarshal(raw, &wrapper); err2 != nil || wrapper.Courses == nil {
			l.logger.Warn("catalog records are not a list",
				zap.String("path", path), zap.Error(err))
			return Catalog{}
		}
		records = wrapper.Courses
	}

	catalog := Catalog{}
	skipped := 0
	for _, record := range records {
		section, ok := l.decodeSection(record, term)
		if !ok {
			skipped++
			continue
		}
		catalog[section.CourseCode] = append(catalog[section.CourseCode], section)
	}
	if skipped > 0 {
		l.logger.Debug("skipped malformed catalog records",
			zap.String("path", path), zap.Int("skipped", skipped))
	}
	l.logger.Info("loaded catalog",
		zap.String("term", string(term)),
		zap.String("path", path),
		zap.Int("courses", len(catalog)))
	return catalog
}

var codeAliases = []string{"code", "courseCode", "course_code"}
var titleAliases = []string{"title", "courseTitle", "course_title", "name"}
var labelAliases = []string{"section", "sectionLabel", "section_label"}
var instructorAliases = []string{"instructor", "professor", "prof"}
var locationAliases = []string{"location", "room", "place"}
var statusAliases = []string{"status", "availability", "openStatus", "open"}
var dayAliases = []string{"days", "day"}
var timeAliases = []string{"time", "hours"}

func (l *Loader) decodeSection(record map[string]interface{}, term models.Term) (models.Section, bool) {
	code, ok := firstString(record, codeAliases)
	if !ok || strings.TrimSpace(code) == "" {
		return models.Section{}, false
	}

	section := models.Section{
		CourseCode:  NormalizeCourseCode(code),
		CourseTitle: stringOr(record, titleAliases, ""),
		Instructor:  stringOr(record, instructorAliases, ""),
		Location:    stringOr(record, locationAliases, ""),
		Term:        term,
	}
	section.SectionLabel = stringOr(record, labelAliases, "A00")
	section.Type = ClassifySection(section.SectionLabel)
	section.Group = SectionGroup(section.SectionLabel)
	section.Status, section.IsOpen = ParseStatus(firstValue(record, statusAliases))

	// Meeting pattern lives either in a nested schedule object or in
	// top-level days/time fields.
	dayInput := firstValue(record, dayAliases)
	timeInput, _ := firstString(record, timeAliases)
	if schedule, ok := record["schedule"].(map[string]interface{}); ok {
		if dayInput == nil {
			dayInput = firstValue(schedule, dayAliases)
		}
		if timeInput == "" {
			timeInput, _ = firstString(schedule, timeAliases)
		}
		if section.Location == "" {
			section.Location = stringOr(schedule, locationAliases, "")
		}
	}
	section.Days = ParseDays(dayInput)
	section.Time, _ = ParseTimeRange(timeInput)

	return section, true
}

func firstValue(record map[string]interface{}, aliases []string) interface{} {
	for _, alias := range aliases {
		if value, ok := record[alias]; ok && value != nil {
			return value
		}
	}
	return nil
}

func firstString(record map[string]interface{}, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if value, ok := record[alias].(string); ok && value != "" {
			return value, true
		}
	}
	return "", false
}

func stringOr(record map[string]interface{}, aliases []string, fallback string) string {
	if value, ok := firstString(record, aliases); ok {
		return value
	}
	return fallback
}
