package usecase

import "github.com/renaltrack/backend/internal/domain"

// previewGramsPerUnit supplies grams for previewing "1 unit" of a food
// when the user has not pinned a gram weight to the unit.
var previewGramsPerUnit = map[string]float64{
	"g":     100.0, // preview 100 g for the "g" option
	"cup":   240.0,
	"tbsp":  15.0,
	"tsp":   5.0,
	"clove": 3.0,
}

// PortionPreview computes the preview grams and scaled nutrients for a
// chosen unit. unitGrams overrides the per-unit default when positive;
// an unknown unit with no override previews as zero.
func PortionPreview(per100 domain.NutrientProfile, unitKey string, unitGrams float64) (float64, domain.NutrientProfile) {
	grams := unitGrams
	if grams <= 0 {
		grams = previewGramsPerUnit[unitKey]
	}
	return round2(grams), roundProfile(Scale(per100, grams))
}
