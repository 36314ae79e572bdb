package usda

import (
	"strings"

	"github.com/renaltrack/backend/internal/domain"
)

// FDC nutrient IDs for the canonical nutrient set.
var targetNutrientIDs = map[int]string{
	1093: domain.NutrientSodium,
	1003: domain.NutrientProtein,
	1005: domain.NutrientCarbs,
	1004: domain.NutrientFat,
	1258: domain.NutrientSatFat,
	1292: domain.NutrientMonoFat,
	1293: domain.NutrientPolyFat,
	2000: domain.NutrientSugar,
	1092: domain.NutrientPotassium,
	1087: domain.NutrientCalcium,
	1090: domain.NutrientMagnesium,
	1089: domain.NutrientIron,
	1008: domain.NutrientCalories,
}

// labelNutrientNames maps labelNutrients keys onto canonical names.
var labelNutrientNames = map[string]string{
	"protein":            domain.NutrientProtein,
	"carbohydrates":      domain.NutrientCarbs,
	"fat":                domain.NutrientFat,
	"saturatedFat":       domain.NutrientSatFat,
	"monounsaturatedFat": domain.NutrientMonoFat,
	"polyunsaturatedFat": domain.NutrientPolyFat,
	"sugars":             domain.NutrientSugar,
	"calcium":            domain.NutrientCalcium,
	"iron":               domain.NutrientIron,
	"calories":           domain.NutrientCalories,
	"sodium":             domain.NutrientSodium,
}

// MapPer100 extracts a per-100g profile from a detail record. Prefers
// foodNutrients (already per 100 g for SR/Foundation/FNDDS records);
// falls back to labelNutrients scaled by the serving size when the
// serving unit is grams.
func MapPer100(detail *domain.FoodDetail) domain.NutrientProfile {
	var per100 domain.NutrientProfile
	if detail == nil {
		return per100
	}

	if len(detail.FoodNutrients) > 0 {
		for _, fn := range detail.FoodNutrients {
			id := fn.Nutrient.ID
			if id == 0 {
				id = fn.NutrientID
			}
			amt := fn.Amount
			if amt == 0 {
				amt = fn.Value
			}
			if amt == 0 {
				continue
			}
			if name, ok := targetNutrientIDs[id]; ok {
				per100.Set(name, amt)
			} else if fn.Nutrient.Number == "208" || strings.Contains(strings.ToLower(fn.Nutrient.Name), "energy") {
				per100.Calories = amt
			}
		}
		return per100
	}

	unit := strings.ToLower(detail.ServingSizeUnit)
	gramServing := unit == "g" || unit == "gram" || unit == "grams"
	if len(detail.LabelNutrients) > 0 && detail.ServingSize > 0 && gramServing {
		factor := 100.0 / detail.ServingSize
		for key, canon := range labelNutrientNames {
			if amt, ok := detail.LabelNutrients[key]; ok {
				per100.Set(canon, amt.Value*factor)
			}
		}
	}
	return per100
}
