package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/renaltrack/backend/internal/domain"
)

// kJToKcal converts kilojoules to kilocalories.
const kJToKcal = 4.184

// Energy aliases, searched in order. kcal-labeled keys win; kJ keys are
// converted.
var (
	energyKeysKcal = []string{"Calories", "Energy (kcal)", "Energy", "calories", "Energy kcal"}
	energyKeysKJ   = []string{"Energy (kJ)", "Energy (kj)", "kJ", "Kilojoules"}
)

// Ordered alternate names for the macro nutrients, adopted when the
// canonical key is absent from a raw bag.
var macroAliases = map[string][]string{
	domain.NutrientCarbs:   {"Carbohydrate, by difference", "Carbohydrate", "Carbohydrates"},
	domain.NutrientFat:     {"Total lipid (fat)", "Total Fat"},
	domain.NutrientSatFat:  {"Fatty acids, total saturated", "Saturated Fat"},
	domain.NutrientMonoFat: {"Fatty acids, total monounsaturated"},
	domain.NutrientPolyFat: {"Fatty acids, total polyunsaturated"},
	domain.NutrientSugar:   {"Sugars, total including NLEA", "Sugars, total", "Sugar"},
}

// Single known alternates for the minerals.
var mineralAliases = map[string]string{
	domain.NutrientSodium:     "Sodium, Na",
	domain.NutrientPotassium:  "Potassium, K",
	domain.NutrientCalcium:    "Calcium, Ca",
	domain.NutrientMagnesium:  "Magnesium, Mg",
	domain.NutrientIron:       "Iron, Fe",
	domain.NutrientPhosphorus: "Phosphorus, P",
}

// Normalize maps an arbitrary string-keyed nutrient bag onto the
// canonical profile. It never fails: anything missing or unparseable
// becomes 0. Normalize(Normalize(x).Map()) == Normalize(x).
func Normalize(raw map[string]any) domain.NutrientProfile {
	var p domain.NutrientProfile
	if raw == nil {
		return p
	}

	p.Calories = coerceCalories(raw)

	for name, aliases := range macroAliases {
		if _, present := raw[name]; present {
			v, _ := toFloat(raw[name])
			p.Set(name, v)
			continue
		}
		for _, alias := range aliases {
			if av, present := raw[alias]; present {
				v, _ := toFloat(av)
				p.Set(name, v)
				break
			}
		}
	}

	for name, alias := range mineralAliases {
		if _, present := raw[name]; present {
			v, _ := toFloat(raw[name])
			p.Set(name, v)
			continue
		}
		if av, present := raw[alias]; present {
			v, _ := toFloat(av)
			p.Set(name, v)
		}
	}

	if v, ok := toFloat(raw[domain.NutrientProtein]); ok {
		p.Protein = v
	}

	return p
}

// coerceCalories returns kcal no matter how the source labeled energy.
// A zero or unparseable "Calories" value falls through to the alias
// search, same as an absent one.
func coerceCalories(raw map[string]any) float64 {
	for _, k := range energyKeysKcal {
		if v, ok := toFloat(raw[k]); ok && v != 0 {
			return v
		}
	}
	for _, k := range energyKeysKJ {
		if v, ok := toFloat(raw[k]); ok && v != 0 {
			return v / kJToKcal
		}
	}
	return 0
}

// Scale multiplies a per-100g profile by grams/100. Pure and total.
func Scale(per100 domain.NutrientProfile, grams float64) domain.NutrientProfile {
	var out domain.NutrientProfile
	for _, name := range domain.CanonicalNutrients {
		out.Set(name, per100.Get(name)*grams/100.0)
	}
	return out
}

// toFloat coerces the loosely-typed values external bags carry. The
// sentinel strings the source data uses for "unknown" are not numbers.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" || s == "NA" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
