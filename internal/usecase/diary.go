package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/renaltrack/backend/internal/domain"
)

// ErrUnresolvedQuantity means the quantity text parsed but no tier of
// the fallback chain produced a positive gram weight, or the text did
// not parse at all. Handlers surface QuantityHint alongside it.
var ErrUnresolvedQuantity = errors.New("quantity could not be resolved to grams")

// ProgressBand classifies a nutrient total against its daily target.
type ProgressBand string

const (
	BandNone ProgressBand = "none" // no target configured
	BandOK   ProgressBand = "ok"
	BandNear ProgressBand = "near"
	BandOver ProgressBand = "over"
)

// Targets holds the daily limits (or goals) progress is reported against.
type Targets struct {
	Sodium    float64
	Potassium float64
	Protein   float64
	Calories  float64
}

// UpdateOutcome says what ApplyQuantity did with the input.
type UpdateOutcome int

const (
	UpdateNone UpdateOutcome = iota
	UpdateRemoved
	UpdateApplied
)

// SodiumInsight names the day's largest sodium contributor.
type SodiumInsight struct {
	Name     string  `json:"name"`
	Sodium   float64 `json:"sodium"`
	SharePct float64 `json:"sharePct"`
}

// DiaryService keeps the working (not yet finalized) diary days in
// memory and finalizes them into the history store. Entries are keyed
// by date then FDC ID, so re-entering a quantity replaces the entry.
type DiaryService struct {
	foods    *FoodService
	resolver *GramResolver
	history  domain.HistoryRepository // optional
	targets  Targets

	mu   sync.Mutex
	days map[string]map[string]domain.DiaryEntry
}

// NewDiaryService creates a diary service. history may be nil, in which
// case FinalizeDay fails.
func NewDiaryService(foods *FoodService, resolver *GramResolver, history domain.HistoryRepository, targets Targets) *DiaryService {
	return &DiaryService{
		foods:    foods,
		resolver: resolver,
		history:  history,
		targets:  targets,
		days:     make(map[string]map[string]domain.DiaryEntry),
	}
}

// ApplyQuantity applies one quantity input to a day's entry for a food.
// Empty input changes nothing; a removal sentinel deletes the entry;
// anything else is resolved to grams and scaled. Scaled nutrient values
// are rounded to 2 decimals before storage.
func (s *DiaryService) ApplyQuantity(ctx context.Context, date, fdcID, name string, per100Raw map[string]any, text string) (UpdateOutcome, *domain.DiaryEntry, error) {
	if strings.TrimSpace(text) == "" {
		return UpdateNone, nil, nil
	}
	if IsRemovalSentinel(text) {
		s.removeEntry(date, fdcID)
		return UpdateRemoved, nil, nil
	}

	var portions []domain.Portion
	if s.foods != nil {
		portions = s.foods.PortionsFor(ctx, fdcID, name)
	}

	resolved := s.resolver.ResolveGrams(ctx, name, text, portions)
	if !resolved.Resolved() {
		log.Printf("[DIARY] unresolved quantity %q for %q", text, name)
		return UpdateNone, nil, ErrUnresolvedQuantity
	}

	per100 := Normalize(per100Raw)
	entry := domain.DiaryEntry{
		FdcID:     fdcID,
		Name:      name,
		Grams:     round2(resolved.Grams),
		Portion:   portionHuman(resolved),
		Nutrients: roundProfile(Scale(per100, resolved.Grams)),
	}

	s.mu.Lock()
	day, ok := s.days[date]
	if !ok {
		day = make(map[string]domain.DiaryEntry)
		s.days[date] = day
	}
	day[fdcID] = entry
	s.mu.Unlock()

	return UpdateApplied, &entry, nil
}

// portionHuman renders how a resolved quantity is shown back to the
// user: plain grams for gram input, "count × unit (~grams)" otherwise.
func portionHuman(r domain.ResolvedPortion) string {
	if r.Unit == "" || r.Unit == "g" {
		return fmt.Sprintf("%.0f g", r.Grams)
	}
	return fmt.Sprintf("%g × %s (~%.0f g)", r.Qty, r.Unit, r.Grams)
}

func (s *DiaryService) removeEntry(date, fdcID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if day, ok := s.days[date]; ok {
		delete(day, fdcID)
		if len(day) == 0 {
			delete(s.days, date)
		}
	}
}

// Entries returns a day's entries ordered by food name.
func (s *DiaryService) Entries(date string) []domain.DiaryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.days[date]
	out := make([]domain.DiaryEntry, 0, len(day))
	for _, e := range day {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Totals sums a day's entry nutrients.
func (s *DiaryService) Totals(date string) domain.NutrientProfile {
	var totals domain.NutrientProfile
	for _, e := range s.Entries(date) {
		totals = totals.Add(e.Nutrients)
	}
	return roundProfile(totals)
}

// Day assembles the full working day.
func (s *DiaryService) Day(date string) domain.DiaryDay {
	return domain.DiaryDay{
		Date:    date,
		Entries: s.Entries(date),
		Totals:  s.Totals(date),
	}
}

// CopyDay copies one day's entries over another, replacing it.
func (s *DiaryService) CopyDay(from, to string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.days[from]
	if len(src) == 0 {
		delete(s.days, to)
		return 0
	}
	dst := make(map[string]domain.DiaryEntry, len(src))
	for k, v := range src {
		dst[k] = v
	}
	s.days[to] = dst
	return len(dst)
}

// ClearDay removes all of a day's entries.
func (s *DiaryService) ClearDay(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.days, date)
}

// FinalizeDay persists the working day to history and returns it. The
// working copy stays in memory so the day can still be amended and
// re-finalized.
func (s *DiaryService) FinalizeDay(ctx context.Context, userID, date string) (domain.DiaryDay, error) {
	day := s.Day(date)
	if s.history == nil {
		return day, errors.New("no history store configured")
	}
	if err := s.history.UpsertDay(ctx, userID, day); err != nil {
		return day, fmt.Errorf("finalize %s: %w", date, err)
	}
	log.Printf("[DIARY] finalized %s for user %s (%d entries)", date, userID, len(day.Entries))
	return day, nil
}

// Progress reports the percentage of a target consumed and its band:
// under 80% is ok, up to 100% is near, beyond is over.
func Progress(value, target float64) (int, ProgressBand) {
	if target <= 0 {
		return 0, BandNone
	}
	pct := int(math.Round(value / target * 100))
	switch {
	case pct < 80:
		return pct, BandOK
	case pct <= 100:
		return pct, BandNear
	default:
		return pct, BandOver
	}
}

// ProgressReport is a day's totals measured against the configured targets.
type ProgressReport struct {
	Nutrient string       `json:"nutrient"`
	Value    float64      `json:"value"`
	Target   float64      `json:"target"`
	Percent  int          `json:"percent"`
	Band     ProgressBand `json:"band"`
}

// ProgressFor evaluates the tracked targets against a day's totals.
func (s *DiaryService) ProgressFor(date string) []ProgressReport {
	totals := s.Totals(date)
	rows := []struct {
		name   string
		target float64
	}{
		{domain.NutrientSodium, s.targets.Sodium},
		{domain.NutrientPotassium, s.targets.Potassium},
		{domain.NutrientProtein, s.targets.Protein},
		{domain.NutrientCalories, s.targets.Calories},
	}
	out := make([]ProgressReport, 0, len(rows))
	for _, row := range rows {
		v := totals.Get(row.name)
		pct, band := Progress(v, row.target)
		out = append(out, ProgressReport{
			Nutrient: row.name,
			Value:    v,
			Target:   row.target,
			Percent:  pct,
			Band:     band,
		})
	}
	return out
}

// TopSodium names the day's largest sodium contributor, or nil when the
// day has no sodium at all.
func (s *DiaryService) TopSodium(date string) *SodiumInsight {
	entries := s.Entries(date)
	var top *domain.DiaryEntry
	var total float64
	for i := range entries {
		na := entries[i].Nutrients.Sodium
		total += na
		if top == nil || na > top.Nutrients.Sodium {
			top = &entries[i]
		}
	}
	if top == nil || total <= 0 || top.Nutrients.Sodium <= 0 {
		return nil
	}
	return &SodiumInsight{
		Name:     top.Name,
		Sodium:   top.Nutrients.Sodium,
		SharePct: math.Round(top.Nutrients.Sodium/total*1000) / 10,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundProfile(p domain.NutrientProfile) domain.NutrientProfile {
	for _, name := range domain.CanonicalNutrients {
		p.Set(name, round2(p.Get(name)))
	}
	return p
}
