package schedule

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oumizumi/kairo-api/internal/models"
)

const (
	closedRank         = 10000 // open/closed dominates every time-based score
	unparseablePenalty = 2000
	remotePenalty      = 1000
)

// TimePreference biases candidate ordering when regenerating a schedule.
type TimePreference string

const (
	PreferEarliest  TimePreference = ""
	PreferMorning   TimePreference = "morning"
	PreferAfternoon TimePreference = "afternoon"
	PreferEvening   TimePreference = "evening"
)

// Options tunes one selection run. Avoid holds section keys (see SectionKey)
// the caller wants excluded, typically the sections of the schedule being
// regenerated. AvoidInstructors is matched case-insensitively against the
// section's instructor. EarliestStart and LatestEnd are minutes since
// midnight; zero means no bound. Sections without a parsed time pass the
// time bounds (they already sort last).
type Options struct {
	Avoid            map[string]bool
	AvoidDays        map[models.Weekday]bool
	AvoidInstructors []string
	EarliestStart    int
	LatestEnd        int
	Preference       TimePreference
}

// SectionKey identifies a section for avoid lists.
func SectionKey(s *models.Section) string {
	return fmt.Sprintf("%s %s", s.CourseCode, s.SectionLabel)
}

// Selection is the outcome of one selector run. Sections maps each scheduled
// course to its committed components; Unscheduled lists courses for which no
// conflict-free pick existed. An unscheduled course is a reported result,
// never an error.
type Selection struct {
	Sections    map[string][]models.Section
	Unscheduled []string
	committed   []models.Section
}

func newSelection() *Selection {
	return &Selection{Sections: map[string][]models.Section{}}
}

// Committed returns every committed section in commit order.
func (s *Selection) Committed() []models.Section {
	return s.committed
}

func (s *Selection) commit(code string, sections ...models.Section) {
	s.Sections[code] = append(s.Sections[code], sections...)
	s.committed = append(s.committed, sections...)
}

// Selector picks sections greedily. It keeps no state between runs, so
// regeneration is a fresh run over the same inputs. The random source only
// drives iteration-order shuffles in grouped mode; simple mode is fully
// deterministic.
type Selector struct {
	rng    *rand.Rand
	logger *zap.Logger
}

func NewSelector(rng *rand.Rand, logger *zap.Logger) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{rng: rng, logger: logger}
}

// score orders candidates within equal openness: earlier start wins, a
// missing time range sorts last, and online/TBA rooms take a fixed penalty
// so a later in-person section can beat an early remote one.
func score(s *models.Section, pref TimePreference) int {
	if s.Time == nil {
		return unparseablePenalty + remoteness(s)
	}
	start := s.Time.Start
	base := start
	switch pref {
	case PreferAfternoon:
		base = distance(start, 12*60)
	case PreferEvening:
		base = 24*60 - start
	}
	return base + remoteness(s)
}

func remoteness(s *models.Section) int {
	if s.IsRemote() {
		return remotePenalty
	}
	return 0
}

func distance(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}

func rank(s *models.Section, pref TimePreference) int {
	r := score(s, pref)
	if !s.IsOpen {
		r += closedRank
	}
	return r
}

// sortCandidates orders by openness first, then score, with the section
// label as a final deterministic tie break.
func sortCandidates(candidates []models.Section, pref TimePreference) []models.Section {
	sorted := make([]models.Section, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := rank(&sorted[i], pref), rank(&sorted[j], pref)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].SectionLabel < sorted[j].SectionLabel
	})
	return sorted
}

func (sel *Selector) allowed(s *models.Section, opts Options) bool {
	if opts.Avoid[SectionKey(s)] {
		return false
	}
	for _, day := range s.Days {
		if opts.AvoidDays[day] {
			return false
		}
	}
	for _, instructor := range opts.AvoidInstructors {
		if strings.EqualFold(strings.TrimSpace(instructor), strings.TrimSpace(s.Instructor)) {
			return false
		}
	}
	if s.Time != nil {
		if opts.EarliestStart > 0 && s.Time.Start < opts.EarliestStart {
			return false
		}
		if opts.LatestEnd > 0 && s.Time.End > opts.LatestEnd {
			return false
		}
	}
	return true
}

// SelectSimple schedules one component per course. Courses with the fewest
// candidates go first so scarce courses are not crowded out by flexible ones.
func (sel *Selector) SelectSimple(candidates map[string][]models.Section, opts Options) *Selection {
	result := newSelection()

	codes := make([]string, 0, len(candidates))
	for code := range candidates {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		ni, nj := len(candidates[codes[i]]), len(candidates[codes[j]])
		if ni != nj {
			return ni < nj
		}
		return codes[i] < codes[j]
	})

	for _, code := range codes {
		picked := false
		for _, candidate := range sortCandidates(candidates[code], opts.Preference) {
			candidate := candidate
			if !sel.allowed(&candidate, opts) {
				continue
			}
			if conflictsWithAny(&candidate, result.committed) {
				continue
			}
			result.commit(code, candidate)
			picked = true
			break
		}
		if !picked {
			result.Unscheduled = append(result.Unscheduled, code)
			sel.logger.Debug("no conflict-free section", zap.String("course", code))
		}
	}
	return result
}

// SelectGrouped schedules courses whose sections form coordinated component
// groups (a lecture, lab and discussion sharing a group letter). A group is
// committed all or nothing: the first group where every component type has a
// conflict-free pick wins. Course and group iteration order are shuffled so
// repeated generation produces different, still valid schedules.
func (sel *Selector) SelectGrouped(candidates map[string][]models.Section, opts Options) *Selection {
	result := newSelection()

	codes := make([]string, 0, len(candidates))
	for code := range candidates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	sel.rng.Shuffle(len(codes), func(i, j int) { codes[i], codes[j] = codes[j], codes[i] })

	for _, code := range codes {
		picks := sel.pickGroup(candidates[code], result.committed, opts)
		if picks == nil {
			result.Unscheduled = append(result.Unscheduled, code)
			sel.logger.Debug("no fully satisfiable section group", zap.String("course", code))
			continue
		}
		result.commit(code, picks...)
	}
	return result
}

// pickGroup tries each section group in shuffled order and returns the first
// group's full component set that fits, or nil.
func (sel *Selector) pickGroup(sections []models.Section, committed []models.Section, opts Options) []models.Section {
	byGroup := map[string]map[models.SectionType][]models.Section{}
	for _, section := range sections {
		if byGroup[section.Group] == nil {
			byGroup[section.Group] = map[models.SectionType][]models.Section{}
		}
		byGroup[section.Group][section.Type] = append(byGroup[section.Group][section.Type], section)
	}

	groups := make([]string, 0, len(byGroup))
	for group := range byGroup {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	sel.rng.Shuffle(len(groups), func(i, j int) { groups[i], groups[j] = groups[j], groups[i] })

	for _, group := range groups {
		if picks := sel.tryGroup(byGroup[group], committed, opts); picks != nil {
			return picks
		}
	}
	return nil
}

// tryGroup needs one conflict-free pick for every component type the group
// offers; partial groups are discarded.
func (sel *Selector) tryGroup(byType map[models.SectionType][]models.Section, committed []models.Section, opts Options) []models.Section {
	types := make([]models.SectionType, 0, len(byType))
	for kind := range byType {
		types = append(types, kind)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var picks []models.Section
	for _, kind := range types {
		found := false
		for _, candidate := range sortCandidates(byType[kind], opts.Preference) {
			candidate := candidate
			if !sel.allowed(&candidate, opts) {
				continue
			}
			if conflictsWithAny(&candidate, committed) || conflictsWithAny(&candidate, picks) {
				continue
			}
			picks = append(picks, candidate)
			found = true
			break
		}
		if !found {
			return nil
		}
	}
	return picks
}
