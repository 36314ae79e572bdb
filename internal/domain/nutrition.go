package domain

// Canonical nutrient names. Every external nutrient bag is normalized
// onto exactly this set before it is scaled, summed, or displayed.
const (
	NutrientSodium     = "Sodium"
	NutrientPotassium  = "Potassium"
	NutrientPhosphorus = "Phosphorus"
	NutrientCalcium    = "Calcium"
	NutrientMagnesium  = "Magnesium"
	NutrientProtein    = "Protein"
	NutrientCarbs      = "Carbs"
	NutrientFat        = "Fat"
	NutrientSatFat     = "Sat Fat"
	NutrientMonoFat    = "Mono Fat"
	NutrientPolyFat    = "Poly Fat"
	NutrientSugar      = "Sugar"
	NutrientIron       = "Iron"
	NutrientCalories   = "Calories"
)

// CanonicalNutrients lists the canonical names in display order.
var CanonicalNutrients = []string{
	NutrientSodium, NutrientPotassium, NutrientPhosphorus,
	NutrientCalcium, NutrientMagnesium, NutrientProtein,
	NutrientCarbs, NutrientFat, NutrientSatFat, NutrientMonoFat,
	NutrientPolyFat, NutrientSugar, NutrientIron, NutrientCalories,
}

// NutrientProfile holds one amount per canonical nutrient. Whether the
// values are per 100 g or per portion is a property of context; callers
// track the basis themselves.
type NutrientProfile struct {
	Sodium     float64 `json:"sodium"`     // mg
	Potassium  float64 `json:"potassium"`  // mg
	Phosphorus float64 `json:"phosphorus"` // mg
	Calcium    float64 `json:"calcium"`    // mg
	Magnesium  float64 `json:"magnesium"`  // mg
	Protein    float64 `json:"protein"`    // g
	Carbs      float64 `json:"carbs"`      // g
	Fat        float64 `json:"fat"`        // g
	SatFat     float64 `json:"satFat"`     // g
	MonoFat    float64 `json:"monoFat"`    // g
	PolyFat    float64 `json:"polyFat"`    // g
	Sugar      float64 `json:"sugar"`      // g
	Iron       float64 `json:"iron"`       // mg
	Calories   float64 `json:"calories"`   // kcal
}

// Get returns the amount for a canonical nutrient name, 0 for unknown names.
func (p NutrientProfile) Get(name string) float64 {
	switch name {
	case NutrientSodium:
		return p.Sodium
	case NutrientPotassium:
		return p.Potassium
	case NutrientPhosphorus:
		return p.Phosphorus
	case NutrientCalcium:
		return p.Calcium
	case NutrientMagnesium:
		return p.Magnesium
	case NutrientProtein:
		return p.Protein
	case NutrientCarbs:
		return p.Carbs
	case NutrientFat:
		return p.Fat
	case NutrientSatFat:
		return p.SatFat
	case NutrientMonoFat:
		return p.MonoFat
	case NutrientPolyFat:
		return p.PolyFat
	case NutrientSugar:
		return p.Sugar
	case NutrientIron:
		return p.Iron
	case NutrientCalories:
		return p.Calories
	}
	return 0
}

// Set assigns the amount for a canonical nutrient name. Unknown names
// are ignored.
func (p *NutrientProfile) Set(name string, v float64) {
	switch name {
	case NutrientSodium:
		p.Sodium = v
	case NutrientPotassium:
		p.Potassium = v
	case NutrientPhosphorus:
		p.Phosphorus = v
	case NutrientCalcium:
		p.Calcium = v
	case NutrientMagnesium:
		p.Magnesium = v
	case NutrientProtein:
		p.Protein = v
	case NutrientCarbs:
		p.Carbs = v
	case NutrientFat:
		p.Fat = v
	case NutrientSatFat:
		p.SatFat = v
	case NutrientMonoFat:
		p.MonoFat = v
	case NutrientPolyFat:
		p.PolyFat = v
	case NutrientSugar:
		p.Sugar = v
	case NutrientIron:
		p.Iron = v
	case NutrientCalories:
		p.Calories = v
	}
}

// Add returns the element-wise sum of two profiles.
func (p NutrientProfile) Add(q NutrientProfile) NutrientProfile {
	var out NutrientProfile
	for _, name := range CanonicalNutrients {
		out.Set(name, p.Get(name)+q.Get(name))
	}
	return out
}

// Map converts the profile to a canonical-name-keyed bag, the shape the
// normalizer accepts. Normalizing the result of Map yields the profile back.
func (p NutrientProfile) Map() map[string]any {
	out := make(map[string]any, len(CanonicalNutrients))
	for _, name := range CanonicalNutrients {
		out[name] = p.Get(name)
	}
	return out
}
