package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/renaltrack/backend/internal/domain"
)

func newTestDiary(history domain.HistoryRepository) *DiaryService {
	resolver := NewGramResolver(DefaultHeuristics(), domain.DefaultUnitRegistry(), nil)
	targets := Targets{Sodium: 2000, Potassium: 2500, Protein: 60, Calories: 2200}
	return NewDiaryService(nil, resolver, history, targets)
}

var ricePer100 = map[string]any{"Calories": 130.0, "Sodium": 1.0, "Protein": 2.7}

func TestApplyQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("grams input", func(t *testing.T) {
		s := newTestDiary(nil)
		outcome, entry, err := s.ApplyQuantity(ctx, "2026-08-28", "123", "Cooked Rice", ricePer100, "360g")
		if err != nil || outcome != UpdateApplied {
			t.Fatalf("outcome = %v, err = %v", outcome, err)
		}
		if entry.Grams != 360 || entry.Portion != "360 g" {
			t.Errorf("entry = %+v", entry)
		}
		if entry.Nutrients.Calories != 468 || entry.Nutrients.Sodium != 3.6 {
			t.Errorf("nutrients = %+v", entry.Nutrients)
		}
	})

	t.Run("unit input labels count and approx grams", func(t *testing.T) {
		s := newTestDiary(nil)
		_, entry, err := s.ApplyQuantity(ctx, "2026-08-28", "7", "Garlic", map[string]any{"Sodium": 17.0}, "2 cloves")
		if err != nil {
			t.Fatal(err)
		}
		if entry.Grams != 6 || entry.Portion != "2 × clove (~6 g)" {
			t.Errorf("entry = %+v", entry)
		}
	})

	t.Run("re-entry replaces the entry", func(t *testing.T) {
		s := newTestDiary(nil)
		s.ApplyQuantity(ctx, "d", "123", "Rice", ricePer100, "100g")
		s.ApplyQuantity(ctx, "d", "123", "Rice", ricePer100, "200g")
		entries := s.Entries("d")
		if len(entries) != 1 || entries[0].Grams != 200 {
			t.Errorf("entries = %+v", entries)
		}
	})

	t.Run("empty input changes nothing", func(t *testing.T) {
		s := newTestDiary(nil)
		s.ApplyQuantity(ctx, "d", "123", "Rice", ricePer100, "100g")
		outcome, _, err := s.ApplyQuantity(ctx, "d", "123", "Rice", ricePer100, "   ")
		if outcome != UpdateNone || err != nil {
			t.Fatalf("outcome = %v, err = %v", outcome, err)
		}
		if got := s.Entries("d"); len(got) != 1 || got[0].Grams != 100 {
			t.Errorf("entries = %+v", got)
		}
	})

	t.Run("sentinel removes", func(t *testing.T) {
		s := newTestDiary(nil)
		s.ApplyQuantity(ctx, "d", "123", "Rice", ricePer100, "100g")
		outcome, _, err := s.ApplyQuantity(ctx, "d", "123", "Rice", ricePer100, "0")
		if outcome != UpdateRemoved || err != nil {
			t.Fatalf("outcome = %v, err = %v", outcome, err)
		}
		if got := s.Entries("d"); len(got) != 0 {
			t.Errorf("entries = %+v, want none", got)
		}
	})

	t.Run("unresolvable input errors without change", func(t *testing.T) {
		s := newTestDiary(nil)
		outcome, _, err := s.ApplyQuantity(ctx, "d", "123", "Rice", ricePer100, "banana boat")
		if !errors.Is(err, ErrUnresolvedQuantity) || outcome != UpdateNone {
			t.Fatalf("outcome = %v, err = %v", outcome, err)
		}
		if got := s.Entries("d"); len(got) != 0 {
			t.Errorf("entries = %+v, want none", got)
		}
	})
}

func TestDiaryTotalsAndDay(t *testing.T) {
	ctx := context.Background()
	s := newTestDiary(nil)
	s.ApplyQuantity(ctx, "d", "1", "Rice", ricePer100, "100g")
	s.ApplyQuantity(ctx, "d", "2", "More Rice", ricePer100, "100g")

	totals := s.Totals("d")
	if totals.Calories != 260 || totals.Sodium != 2 || totals.Protein != 5.4 {
		t.Errorf("totals = %+v", totals)
	}

	day := s.Day("d")
	if day.Date != "d" || len(day.Entries) != 2 || day.Totals != totals {
		t.Errorf("day = %+v", day)
	}
}

func TestCopyAndClearDay(t *testing.T) {
	ctx := context.Background()
	s := newTestDiary(nil)
	s.ApplyQuantity(ctx, "mon", "1", "Rice", ricePer100, "100g")

	if n := s.CopyDay("mon", "tue"); n != 1 {
		t.Errorf("copied %d entries, want 1", n)
	}
	if got := s.Entries("tue"); len(got) != 1 {
		t.Fatalf("tue entries = %+v", got)
	}

	// copies are independent
	s.ApplyQuantity(ctx, "tue", "1", "Rice", ricePer100, "200g")
	if got := s.Entries("mon"); got[0].Grams != 100 {
		t.Errorf("mon mutated by tue edit: %+v", got)
	}

	// copying an empty day clears the target
	if n := s.CopyDay("sun", "tue"); n != 0 {
		t.Errorf("copied %d entries from empty day", n)
	}
	if got := s.Entries("tue"); len(got) != 0 {
		t.Errorf("tue entries = %+v, want none", got)
	}

	s.ClearDay("mon")
	if got := s.Entries("mon"); len(got) != 0 {
		t.Errorf("mon entries = %+v after clear", got)
	}
}

type stubHistory struct {
	days map[string]domain.DiaryDay
	err  error
}

func (h *stubHistory) UpsertDay(_ context.Context, userID string, day domain.DiaryDay) error {
	if h.err != nil {
		return h.err
	}
	if h.days == nil {
		h.days = make(map[string]domain.DiaryDay)
	}
	h.days[userID+"/"+day.Date] = day
	return nil
}

func (h *stubHistory) ListDays(_ context.Context, _ string) ([]domain.DiaryDay, error) {
	return nil, nil
}

func (h *stubHistory) GetDay(_ context.Context, _, _ string) (*domain.DiaryDay, error) {
	return nil, domain.ErrDayNotFound
}

func TestFinalizeDay(t *testing.T) {
	ctx := context.Background()
	hist := &stubHistory{}
	s := newTestDiary(hist)
	s.ApplyQuantity(ctx, "2026-08-28", "1", "Rice", ricePer100, "100g")

	day, err := s.FinalizeDay(ctx, "u1", "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	stored, ok := hist.days["u1/2026-08-28"]
	if !ok || len(stored.Entries) != 1 || stored.Totals != day.Totals {
		t.Errorf("stored = %+v", stored)
	}

	hist.err = errors.New("disk full")
	if _, err := s.FinalizeDay(ctx, "u1", "2026-08-28"); err == nil {
		t.Error("expected error from failing store")
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		value, target float64
		pct           int
		band          ProgressBand
	}{
		{0, 2000, 0, BandOK},
		{1000, 2000, 50, BandOK},
		{1590, 2000, 80, BandNear},
		{2000, 2000, 100, BandNear},
		{2100, 2000, 105, BandOver},
		{500, 0, 0, BandNone},
	}
	for _, tt := range tests {
		pct, band := Progress(tt.value, tt.target)
		if pct != tt.pct || band != tt.band {
			t.Errorf("Progress(%v, %v) = (%d, %s), want (%d, %s)",
				tt.value, tt.target, pct, band, tt.pct, tt.band)
		}
	}
}

func TestProgressFor(t *testing.T) {
	ctx := context.Background()
	s := newTestDiary(nil)
	s.ApplyQuantity(ctx, "d", "1", "Salty Soup", map[string]any{"Sodium": 800.0}, "200g")

	rows := s.ProgressFor("d")
	if len(rows) != 4 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].Nutrient != domain.NutrientSodium || rows[0].Percent != 80 || rows[0].Band != BandNear {
		t.Errorf("sodium row = %+v", rows[0])
	}
}

func TestTopSodium(t *testing.T) {
	ctx := context.Background()
	s := newTestDiary(nil)

	if got := s.TopSodium("d"); got != nil {
		t.Errorf("empty day insight = %+v, want nil", got)
	}

	s.ApplyQuantity(ctx, "d", "1", "Rice", map[string]any{"Sodium": 1.0}, "100g")
	s.ApplyQuantity(ctx, "d", "2", "Soup", map[string]any{"Sodium": 300.0}, "100g")

	got := s.TopSodium("d")
	if got == nil || got.Name != "Soup" {
		t.Fatalf("insight = %+v", got)
	}
	if got.Sodium != 300 || got.SharePct != 99.7 {
		t.Errorf("insight = %+v", got)
	}
}
