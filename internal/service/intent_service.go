package service

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/oumizumi/kairo-api/internal/models"
)

// Intent is a coarse classification of a free-text scheduling request.
type Intent string

const (
	IntentGenerate Intent = "generate_schedule"
	IntentClear    Intent = "clear_schedule"
	IntentShow     Intent = "show_schedule"
	IntentUnknown  Intent = "unknown"
)

// IntentService maps chat-style messages onto scheduling actions with plain
// keyword rules. It is the fallback path when no richer language model is
// wired in, so unknown is a perfectly fine answer.
type IntentService struct {
	logger *zap.Logger
}

func NewIntentService(logger *zap.Logger) *IntentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentService{logger: logger}
}

var generateKeywords = []string{"generate", "build", "make", "create", "plan", "schedule me"}
var clearKeywords = []string{"clear", "delete", "remove", "reset", "wipe"}
var showKeywords = []string{"show", "view", "see", "display", "what is my", "what's my"}

// Classify picks the most plausible action for a message.
func (s *IntentService) Classify(message string) Intent {
	lowered := strings.ToLower(message)
	if !strings.Contains(lowered, "schedule") && !strings.Contains(lowered, "timetable") && !strings.Contains(lowered, "calendar") {
		return IntentUnknown
	}
	for _, keyword := range clearKeywords {
		if strings.Contains(lowered, keyword) {
			return IntentClear
		}
	}
	for _, keyword := range generateKeywords {
		if strings.Contains(lowered, keyword) {
			return IntentGenerate
		}
	}
	for _, keyword := range showKeywords {
		if strings.Contains(lowered, keyword) {
			return IntentShow
		}
	}
	return IntentUnknown
}

// InferTerm extracts a term mention ("for the winter term"). Returns false
// when the message names no term.
func (s *IntentService) InferTerm(message string) (models.Term, bool) {
	lowered := strings.ToLower(message)
	for _, name := range []string{"fall", "autumn", "winter", "spring", "summer"} {
		if strings.Contains(lowered, name) {
			return models.NormalizeTerm(name), true
		}
	}
	return "", false
}

var yearPattern = regexp.MustCompile(`([1-6])(?:st|nd|rd|th)?[-\s]*year|year[-\s]*([1-6])`)

// InferYear extracts a program year mention ("2nd year", "year 3").
func (s *IntentService) InferYear(message string) (int, bool) {
	match := yearPattern.FindStringSubmatch(strings.ToLower(message))
	if match == nil {
		return 0, false
	}
	for _, group := range match[1:] {
		if group != "" {
			year, err := strconv.Atoi(group)
			if err == nil {
				return year, true
			}
		}
	}
	return 0, false
}
