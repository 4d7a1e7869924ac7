package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/oumizumi/kairo-api/internal/models"
)

// Scraped timetable data is inconsistently formatted; every parser in this
// file is total (never panics, never errors) and signals failure through its
// boolean result. Strategies are tried in order, first success wins.

var (
	colonRangePattern  = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)
	frenchRangePattern = regexp.MustCompile(`(\d{1,2})h(\d{2})\s*-\s*(\d{1,2})h(\d{2})`)
	yearPattern        = regexp.MustCompile(`(20\d{2})`)
)

type timeStrategy func(string) (models.TimeRange, bool)

var timeStrategies = []timeStrategy{
	parseColonRange,
	parseFrenchRange,
}

// ParseTimeRange extracts a start/end window from strings like
// "08:30 - 10:00", "8:30-10:00" or the French "8h30 - 10h00".
func ParseTimeRange(raw string) (*models.TimeRange, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "TBA") {
		return nil, false
	}
	for _, strategy := range timeStrategies {
		if tr, ok := strategy(raw); ok {
			return &tr, true
		}
	}
	return nil, false
}

func parseColonRange(raw string) (models.TimeRange, bool) {
	return rangeFromMatch(colonRangePattern.FindStringSubmatch(raw))
}

func parseFrenchRange(raw string) (models.TimeRange, bool) {
	return rangeFromMatch(frenchRangePattern.FindStringSubmatch(raw))
}

func rangeFromMatch(match []string) (models.TimeRange, bool) {
	if len(match) != 5 {
		return models.TimeRange{}, false
	}
	startHour, _ := strconv.Atoi(match[1])
	startMin, _ := strconv.Atoi(match[2])
	endHour, _ := strconv.Atoi(match[3])
	endMin, _ := strconv.Atoi(match[4])
	if startHour > 23 || endHour > 23 || startMin > 59 || endMin > 59 {
		return models.TimeRange{}, false
	}
	tr := models.TimeRange{Start: startHour*60 + startMin, End: endHour*60 + endMin}
	if tr.End <= tr.Start {
		return models.TimeRange{}, false
	}
	return tr, true
}

var singleLetterDays = map[byte]models.Weekday{
	'M': models.Monday,
	'T': models.Tuesday,
	'W': models.Wednesday,
	'R': models.Thursday,
	'F': models.Friday,
	'S': models.Saturday,
	'U': models.Sunday,
}

var twoLetterDays = map[string]models.Weekday{
	"Mo": models.Monday,
	"Tu": models.Tuesday,
	"We": models.Wednesday,
	"Th": models.Thursday,
	"Fr": models.Friday,
	"Sa": models.Saturday,
	"Su": models.Sunday,
}

var fullNameDays = map[string]models.Weekday{
	"monday":    models.Monday,
	"tuesday":   models.Tuesday,
	"wednesday": models.Wednesday,
	"thursday":  models.Thursday,
	"friday":    models.Friday,
	"saturday":  models.Saturday,
	"sunday":    models.Sunday,
}

var dayTokenPattern = regexp.MustCompile(`[,/\s]+`)

// ParseDays accepts the day representations seen in scraped data: a list of
// abbreviations (["Mo","We"]), a compact letter string ("MWF"), comma or
// slash separated full names, or two-letter runs ("MoWeFr").
func ParseDays(input interface{}) []models.Weekday {
	switch value := input.(type) {
	case nil:
		return nil
	case []interface{}:
		var days []models.Weekday
		for _, item := range value {
			if s, ok := item.(string); ok {
				days = appendDays(days, parseDayToken(s))
			}
		}
		return days
	case []string:
		var days []models.Weekday
		for _, item := range value {
			days = appendDays(days, parseDayToken(item))
		}
		return days
	case string:
		return parseDayString(value)
	default:
		return nil
	}
}

func parseDayString(raw string) []models.Weekday {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "TBA") {
		return nil
	}

	// Full names first: "Monday, Wednesday" must not decay to letter soup.
	tokens := dayTokenPattern.Split(raw, -1)
	var days []models.Weekday
	sawFullName := false
	for _, token := range tokens {
		if day, ok := fullNameDays[strings.ToLower(token)]; ok {
			days = appendDays(days, []models.Weekday{day})
			sawFullName = true
		}
	}
	if sawFullName {
		return days
	}

	// Two-letter runs like "MoWeFr".
	if twoLetter := parseTwoLetterRun(raw); len(twoLetter) > 0 {
		return twoLetter
	}

	// Compact single letters like "MWF" (R=Thursday, U=Sunday).
	upper := strings.ToUpper(raw)
	for i := 0; i < len(upper); i++ {
		if day, ok := singleLetterDays[upper[i]]; ok {
			days = appendDays(days, []models.Weekday{day})
		}
	}
	return days
}

func parseTwoLetterRun(raw string) []models.Weekday {
	cleaned := dayTokenPattern.ReplaceAllString(raw, "")
	if len(cleaned) < 2 || len(cleaned)%2 != 0 {
		return nil
	}
	var days []models.Weekday
	for i := 0; i+1 < len(cleaned); i += 2 {
		day, ok := twoLetterDays[cleaned[i:i+2]]
		if !ok {
			return nil
		}
		days = appendDays(days, []models.Weekday{day})
	}
	return days
}

func parseDayToken(token string) []models.Weekday {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if day, ok := fullNameDays[strings.ToLower(token)]; ok {
		return []models.Weekday{day}
	}
	if day, ok := twoLetterDays[token]; ok {
		return []models.Weekday{day}
	}
	// Three-letter abbreviations ("Mon", "Thu") show up in some scrapes.
	if len(token) >= 3 {
		for name, day := range fullNameDays {
			if strings.HasPrefix(name, strings.ToLower(token)) {
				return []models.Weekday{day}
			}
		}
	}
	if len(token) == 1 {
		if day, ok := singleLetterDays[strings.ToUpper(token)[0]]; ok {
			return []models.Weekday{day}
		}
	}
	return nil
}

func appendDays(days []models.Weekday, extra []models.Weekday) []models.Weekday {
	for _, day := range extra {
		seen := false
		for _, existing := range days {
			if existing == day {
				seen = true
				break
			}
		}
		if !seen {
			days = append(days, day)
		}
	}
	return days
}

var openTokens = []string{"open", "available", "spaces", "spots"}
var closedTokens = []string{"closed", "full", "waitlist"}

// ParseStatus derives openness from a free-text status field. Closed tokens
// override open ones ("waitlist open" is still closed); unrecognized text is
// treated as closed.
func ParseStatus(raw interface{}) (string, bool) {
	switch value := raw.(type) {
	case nil:
		return "", false
	case bool:
		if value {
			return "true", true
		}
		return "false", false
	case string:
		lowered := strings.ToLower(strings.TrimSpace(value))
		open := false
		for _, token := range openTokens {
			if strings.Contains(lowered, token) {
				open = true
				break
			}
		}
		for _, token := range closedTokens {
			if strings.Contains(lowered, token) {
				open = false
				break
			}
		}
		return value, open
	default:
		return "", false
	}
}

// sectionTypeRules is evaluated top to bottom; the first label substring that
// matches wins, with lecture as the fallback for plain labels like "A01".
var sectionTypeRules = []struct {
	needle string
	kind   models.SectionType
}{
	{"LAB", models.SectionLab},
	{"DGD", models.SectionDiscussion},
	{"TUT", models.SectionTutorial},
	{"SEM", models.SectionSeminar},
	{"LEC", models.SectionLecture},
	{"WORKSHOP", models.SectionWorkshop},
	{"WRK", models.SectionWorkshop},
	{"STUDIO", models.SectionStudio},
	{"STU", models.SectionStudio},
}

// ClassifySection derives the component type from a section label such as
// "A01-LAB".
func ClassifySection(label string) models.SectionType {
	upper := strings.ToUpper(label)
	for _, rule := range sectionTypeRules {
		if strings.Contains(upper, rule.needle) {
			return rule.kind
		}
	}
	return models.SectionLecture
}

// SectionGroup extracts the coordinating group letter (first character of the
// label). Components sharing a group are meant to be taken together.
func SectionGroup(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "A"
	}
	return strings.ToUpper(label[:1])
}

// NormalizeCourseCode strips spaces and uppercases ("csi 2110" -> "CSI2110").
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(code, " ", ""))
}

// SpacedCourseCode inserts the conventional space between subject letters and
// course number ("GNG2101" -> "GNG 2101").
func SpacedCourseCode(code string) string {
	if len(code) < 4 {
		return code
	}
	i := 0
	for i < len(code) && isLetter(code[i]) {
		i++
	}
	if i == 0 || i >= len(code) {
		return code
	}
	return code[:i] + " " + code[i:]
}

// SplitCourseCode separates subject letters from the numeric part.
// The number result is -1 when no digits are present.
func SplitCourseCode(code string) (string, int) {
	normalized := NormalizeCourseCode(code)
	var subject, digits strings.Builder
	for i := 0; i < len(normalized); i++ {
		ch := normalized[i]
		switch {
		case isLetter(ch) && digits.Len() == 0:
			subject.WriteByte(ch)
		case ch >= '0' && ch <= '9':
			digits.WriteByte(ch)
		}
	}
	number := -1
	if digits.Len() > 0 {
		number, _ = strconv.Atoi(digits.String())
	}
	return subject.String(), number
}

func isLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

// IsElectivePlaceholder reports whether a curriculum requirement entry is an
// elective slot rather than a concrete course.
func IsElectivePlaceholder(entry string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(entry)), "elective")
}

// EntryCode strips the title half of a "CODE | Title" requirement entry.
func EntryCode(entry string) string {
	code, _, _ := strings.Cut(entry, "|")
	return strings.TrimSpace(code)
}

// embeddedYear pulls the most recent-looking year out of a term label like
// "Fall 2025 (2259)". Returns 0 when absent.
func embeddedYear(label string) int {
	match := yearPattern.FindString(label)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}
