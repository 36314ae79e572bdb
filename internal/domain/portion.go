package domain

// Portion says "1 Unit of this specific food weighs GramWeight grams".
// Portions are built transiently per request from a food detail record
// or a local fallback table; they are never persisted on their own.
type Portion struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Unit       string  `json:"unit"` // lowercased unit token, may be empty
	GramWeight float64 `json:"gramWeight"`
	Amount     float64 `json:"amount,omitempty"`
}

// QuantityKind tags a parsed quantity intent.
type QuantityKind int

const (
	// QuantityGrams is an explicit gram amount ("150g").
	QuantityGrams QuantityKind = iota
	// QuantityDefaultUnits is a count of whatever unit is judged the
	// food's default ("//", "2//", bare "3").
	QuantityDefaultUnits
	// QuantityUnits is an explicit unit token with a count ("2 tbsp").
	QuantityUnits
)

// Quantity is the structured intent parsed from free-text quantity input.
// Value holds grams for QuantityGrams and a unit count otherwise; Unit
// is set only for QuantityUnits.
type Quantity struct {
	Kind  QuantityKind
	Value float64
	Unit  string
}

// ResolvedPortion is the terminal output of quantity resolution.
// Grams <= 0 signals failure; Unit and Qty preserve what the user typed
// (or the chosen default unit) for re-display and error messaging.
type ResolvedPortion struct {
	Grams float64 `json:"grams"`
	Unit  string  `json:"unit"`
	Qty   float64 `json:"qty"`
}

// Resolved reports whether a usable gram weight was produced.
func (r ResolvedPortion) Resolved() bool { return r.Grams > 0 }

// DiaryEntry is one logged food for one day, with nutrients already
// scaled to the resolved gram weight.
type DiaryEntry struct {
	FdcID     string          `json:"fdcId"`
	Name      string          `json:"name"`
	Grams     float64         `json:"grams"`
	Portion   string          `json:"portion"` // human label, e.g. "1.5 × cup (~360 g)"
	Nutrients NutrientProfile `json:"nutrients"`
}

// DiaryDay is a finalized (or in-progress) day of entries with totals.
type DiaryDay struct {
	Date    string          `json:"date"` // ISO yyyy-mm-dd
	Entries []DiaryEntry    `json:"entries"`
	Totals  NutrientProfile `json:"totals"`
}
