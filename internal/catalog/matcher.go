package catalog

import (
	"sort"
	"strings"
)

// Resolve maps a requested course code onto a code that actually exists in
// the catalog. Codes are compared in normalized form (catalog keys already
// are), so spacing variants collapse before lookup. Curriculum data and live
// timetable data frequently disagree on exact codes, so a miss falls back to
// the closest numeric neighbour within the same subject, and finally to a
// prefix scan. Returns "" when nothing plausible exists.
func Resolve(requested string, catalog Catalog) string {
	normalized := NormalizeCourseCode(requested)
	if normalized == "" {
		return ""
	}
	if _, ok := catalog[normalized]; ok {
		return normalized
	}

	if code := closestBySubject(normalized, catalog); code != "" {
		return code
	}
	return byPrefix(normalized, catalog)
}

func closestBySubject(normalized string, catalog Catalog) string {
	subject, number := SplitCourseCode(normalized)
	if subject == "" || number < 0 {
		return ""
	}
	best := ""
	bestDiff := -1
	for code := range catalog {
		candidateSubject, candidateNumber := SplitCourseCode(code)
		if candidateSubject != subject || candidateNumber < 0 {
			continue
		}
		diff := candidateNumber - number
		if diff < 0 {
			diff = -diff
		}
		switch {
		case bestDiff < 0 || diff < bestDiff:
			best, bestDiff = code, diff
		case diff == bestDiff && code < best:
			best = code
		}
	}
	return best
}

func byPrefix(normalized string, catalog Catalog) string {
	if len(normalized) < 3 {
		return ""
	}
	prefix := normalized[:3]
	var matches []string
	for code := range catalog {
		if strings.Contains(code, prefix) {
			matches = append(matches, code)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}
