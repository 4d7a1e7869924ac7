package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/oumizumi/kairo-api/internal/catalog"
	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
)

const curriculumFile = "curriculums.json"

// curriculum data shape: program -> year -> term -> entries, where an entry
// is either a bare course code or "CODE | Title". Entries starting with
// "elective" (any case) are placeholders the student fills in manually.
type curriculumTable map[string]map[string]map[string][]string

// CurriculumRepository serves program requirement lists from scraped JSON.
// The file is loaded once and held in memory; Reload drops the copy after a
// scraper refresh.
type CurriculumRepository struct {
	dirs   []string
	logger *zap.Logger

	mu       sync.RWMutex
	programs curriculumTable
	loaded   bool
}

// NewCurriculumRepository constructs a curriculum repository over the same
// data directories the catalog loader searches.
func NewCurriculumRepository(dirs []string, logger *zap.Logger) *CurriculumRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumRepository{dirs: dirs, logger: logger}
}

// Programs lists every known program name, sorted.
func (r *CurriculumRepository) Programs(ctx context.Context) ([]string, error) {
	table, err := r.table(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Requirements returns the raw requirement entries for one program term,
// electives included. Program matching is case-insensitive.
func (r *CurriculumRepository) Requirements(ctx context.Context, program string, year int, term string) ([]string, error) {
	table, err := r.table(ctx)
	if err != nil {
		return nil, err
	}

	byYear, ok := table[program]
	if !ok {
		for name, candidate := range table {
			if strings.EqualFold(name, program) {
				byYear = candidate
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown program %q", program))
	}

	byTerm, ok := byYear[strconv.Itoa(year)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("program %q has no year %d", program, year))
	}

	for key, entries := range byTerm {
		if strings.EqualFold(key, term) {
			return entries, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("program %q year %d has no %s term", program, year, term))
}

// RequiredCourses returns the schedulable entries for one program term, with
// elective placeholders filtered out.
func (r *CurriculumRepository) RequiredCourses(ctx context.Context, program string, year int, term string) ([]string, error) {
	entries, err := r.Requirements(ctx, program, year, term)
	if err != nil {
		return nil, err
	}
	var courses []string
	for _, entry := range entries {
		if !catalog.IsElectivePlaceholder(entry) {
			courses = append(courses, entry)
		}
	}
	return courses, nil
}

// ElectivePlaceholders returns the elective entries for one program term.
func (r *CurriculumRepository) ElectivePlaceholders(ctx context.Context, program string, year int, term string) ([]string, error) {
	entries, err := r.Requirements(ctx, program, year, term)
	if err != nil {
		return nil, err
	}
	var electives []string
	for _, entry := range entries {
		if catalog.IsElectivePlaceholder(entry) {
			electives = append(electives, entry)
		}
	}
	return electives, nil
}

// Reload drops the in-memory table so the next read hits disk again.
func (r *CurriculumRepository) Reload() {
	r.mu.Lock()
	r.programs = nil
	r.loaded = false
	r.mu.Unlock()
}

func (r *CurriculumRepository) table(ctx context.Context) (curriculumTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	if r.loaded {
		table := r.programs
		r.mu.RUnlock()
		return table, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return r.programs, nil
	}
	for _, dir := range r.dirs {
		raw, err := os.ReadFile(filepath.Join(dir, curriculumFile))
		if err != nil {
			continue
		}
		var table curriculumTable
		if err := json.Unmarshal(raw, &table); err != nil {
			r.logger.Warn("malformed curriculum file",
				zap.String("path", filepath.Join(dir, curriculumFile)), zap.Error(err))
			continue
		}
		r.programs = table
		r.loaded = true
		r.logger.Info("loaded curriculums", zap.Int("programs", len(table)))
		return table, nil
	}
	return nil, appErrors.Clone(appErrors.ErrDataUnavailable, "no curriculum data found")
}

