package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oumizumi/kairo-api/internal/models"
)

func TestClassifyIntent(t *testing.T) {
	svc := NewIntentService(nil)

	tests := []struct {
		message string
		want    Intent
	}{
		{"generate my fall schedule", IntentGenerate},
		{"please build a timetable for me", IntentGenerate},
		{"clear my schedule", IntentClear},
		{"delete my calendar", IntentClear},
		{"show my schedule", IntentShow},
		{"what's my timetable like", IntentShow},
		{"what is the weather", IntentUnknown},
		{"schedule", IntentUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.Classify(tt.message), tt.message)
	}
}

func TestInferTerm(t *testing.T) {
	svc := NewIntentService(nil)

	term, ok := svc.InferTerm("build my winter schedule")
	assert.True(t, ok)
	assert.Equal(t, models.TermWinter, term)

	term, ok = svc.InferTerm("autumn please")
	assert.True(t, ok)
	assert.Equal(t, models.TermFall, term)

	term, ok = svc.InferTerm("what about my spring courses")
	assert.True(t, ok)
	assert.Equal(t, models.TermSummer, term)

	_, ok = svc.InferTerm("build my schedule")
	assert.False(t, ok)
}

func TestInferYear(t *testing.T) {
	svc := NewIntentService(nil)

	year, ok := svc.InferYear("I'm a 2nd year student")
	assert.True(t, ok)
	assert.Equal(t, 2, year)

	year, ok = svc.InferYear("schedule for year 3")
	assert.True(t, ok)
	assert.Equal(t, 3, year)

	_, ok = svc.InferYear("no year here")
	assert.False(t, ok)
}
