package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/renaltrack/backend/internal/domain"
)

// Fixed volumetric ratios: 1 cup = 16 tbsp = 48 tsp.
const (
	tspPerTbsp = 3.0
	tbspPerCup = 16.0
)

// unitSynonyms groups spelling variants under a canonical unit. A
// requested unit belonging to a group matches any variant in the group.
var unitSynonyms = map[string][]string{
	"clove":        {"clove", "cloves"},
	"cup":          {"cup", "cups"},
	"tbsp":         {"tbsp", "tablespoon", "tablespoons"},
	"tsp":          {"tsp", "teaspoon", "teaspoons"},
	"pound":        {"lb", "lbs", "pound", "pounds"},
	"ounce":        {"oz", "ounce", "ounces"},
	"whole":        {"whole", "each", "piece"},
	"undetermined": {"undetermined"},
}

// defaultUnitPriority is the order in which a food's available units are
// considered when the user gives only a bare count. The order is
// arbitrary but load-bearing; do not reorder.
var defaultUnitPriority = []string{"cracker", "slice", "cup", "tbsp", "tsp", "whole", "piece"}

// BuildPortions simplifies raw serving-size records to portions.
// Records without a positive gram weight are discarded silently.
func BuildPortions(raw []domain.FoodPortion) []domain.Portion {
	var out []domain.Portion
	for i, rp := range raw {
		if rp.GramWeight <= 0 {
			continue
		}
		unitName := rp.MeasureUnit.Name
		label := portionLabel(rp.Amount, unitName, rp.Modifier)
		var amount float64
		if rp.Amount > 0 {
			amount = rp.Amount
		}
		out = append(out, domain.Portion{
			ID:         strconv.Itoa(i),
			Label:      label,
			Unit:       strings.ToLower(unitName),
			GramWeight: rp.GramWeight,
			Amount:     amount,
		})
	}
	return out
}

func portionLabel(amount float64, unitName, modifier string) string {
	var label string
	switch {
	case amount > 0 && unitName != "":
		label = strings.TrimSpace(fmt.Sprintf("%g %s", amount, unitName))
	case unitName != "":
		label = unitName
	default:
		label = "portion"
	}
	if modifier != "" {
		label += fmt.Sprintf(" (%s)", modifier)
	}
	return label
}

// DeriveCommonVolumes appends synthesized tsp/cup entries when only a
// tbsp portion is known, or a tbsp entry when only tsp is known. The
// tbsp-derived direction takes priority; at most one direction runs.
func DeriveCommonVolumes(portions []domain.Portion) []domain.Portion {
	out := make([]domain.Portion, len(portions))
	copy(out, portions)

	derived := func(unit string, grams float64) domain.Portion {
		return domain.Portion{
			ID:         fmt.Sprintf("der-%s-%d", unit, len(out)),
			Label:      fmt.Sprintf("1 %s (derived)", unit),
			Unit:       unit,
			GramWeight: grams,
			Amount:     1.0,
		}
	}

	if tbsp := firstWithUnit(portions, "tablespoon", "tbsp"); tbsp != nil {
		out = append(out, derived("tsp", tbsp.GramWeight/tspPerTbsp))
		out = append(out, derived("cup", tbsp.GramWeight*tbspPerCup))
		return out
	}
	if tsp := firstWithUnit(portions, "teaspoon", "tsp"); tsp != nil {
		out = append(out, derived("tbsp", tsp.GramWeight*tspPerTbsp))
	}
	return out
}

func firstWithUnit(portions []domain.Portion, units ...string) *domain.Portion {
	for i := range portions {
		for _, u := range units {
			if portions[i].Unit == u {
				return &portions[i]
			}
		}
	}
	return nil
}

// MatchPortion finds the portion for a requested unit: first by unit
// token (including synonym-group variants), then by label substring.
// Returns nil when nothing matches. First match wins, duplicates are
// tolerated.
func MatchPortion(portions []domain.Portion, unit string) *domain.Portion {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" || len(portions) == 0 {
		return nil
	}

	cands := candidateUnits(u)

	for i := range portions {
		if _, ok := cands[portions[i].Unit]; ok {
			return &portions[i]
		}
	}
	for i := range portions {
		label := strings.ToLower(portions[i].Label)
		for c := range cands {
			if strings.Contains(label, c) {
				return &portions[i]
			}
		}
	}
	return nil
}

// candidateUnits builds the set of unit spellings equivalent to u.
func candidateUnits(u string) map[string]struct{} {
	base := strings.TrimSuffix(u, "s")
	cands := map[string]struct{}{u: {}, base: {}}
	for canon, syns := range unitSynonyms {
		match := u == canon || base == canon
		if !match {
			for _, s := range syns {
				if u == s || base == s {
					match = true
					break
				}
			}
		}
		if match {
			cands[canon] = struct{}{}
			for _, s := range syns {
				cands[s] = struct{}{}
			}
		}
	}
	return cands
}

// PickDefaultUnit chooses the unit a bare count refers to: the first
// priority unit present in the table, else the table's first unit, else
// "whole".
func PickDefaultUnit(portions []domain.Portion) string {
	units := make(map[string]struct{}, len(portions))
	for _, p := range portions {
		if p.Unit != "" {
			units[strings.ToLower(p.Unit)] = struct{}{}
		}
	}
	for _, u := range defaultUnitPriority {
		if _, ok := units[u]; ok {
			return u
		}
	}
	for _, p := range portions {
		if u := strings.ToLower(p.Unit); u != "" {
			return u
		}
	}
	return "whole"
}

// BuildHint returns the quantity-input hint matching the food's units.
func BuildHint(portions []domain.Portion) string {
	units := make(map[string]struct{}, len(portions))
	for _, p := range portions {
		units[strings.ToLower(p.Unit)] = struct{}{}
	}
	hints := []struct{ unit, msg string }{
		{"cracker", "enter grams or number of crackers"},
		{"slice", "enter grams or number of slices"},
		{"cup", "enter grams or number of cups"},
		{"tbsp", "enter grams or number of tablespoons"},
		{"tsp", "enter grams or number of teaspoons"},
		{"whole", "enter grams or number of whole pieces"},
	}
	for _, h := range hints {
		if _, ok := units[h.unit]; ok {
			return h.msg
		}
	}
	return "enter grams or units"
}
