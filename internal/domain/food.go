package domain

// FoodSummary is one hit from a FoodData Central search.
type FoodSummary struct {
	FdcID       int    `json:"fdcId"`
	Description string `json:"description"`
	DataType    string `json:"dataType"`
	BrandOwner  string `json:"brandOwner,omitempty"`
}

// FoodSearchResponse is the response shape of the FDC search endpoint.
type FoodSearchResponse struct {
	Foods       []FoodSummary `json:"foods"`
	TotalHits   int           `json:"totalHits"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

// FoodDetail is the detail record for a single food. Only the fields
// the portion builder and nutrient mapper consume are modeled.
type FoodDetail struct {
	FdcID           int               `json:"fdcId"`
	Description     string            `json:"description"`
	DataType        string            `json:"dataType"`
	FoodNutrients   []FoodNutrient    `json:"foodNutrients"`
	FoodPortions    []FoodPortion     `json:"foodPortions"`
	LabelNutrients  map[string]Amount `json:"labelNutrients"`
	ServingSize     float64           `json:"servingSize"`
	ServingSizeUnit string            `json:"servingSizeUnit"`
}

// FoodNutrient identifies a nutrient by id/number/name with an amount.
// Search results carry NutrientID/Value; detail records carry a nested
// Nutrient plus Amount. Both shapes appear in the wild, so both are kept.
type FoodNutrient struct {
	Nutrient   NutrientRef `json:"nutrient"`
	Amount     float64     `json:"amount"`
	NutrientID int         `json:"nutrientId"`
	Value      float64     `json:"value"`
}

// NutrientRef is the nested nutrient identity in a detail record.
type NutrientRef struct {
	ID     int    `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
}

// Amount wraps a labelNutrients value.
type Amount struct {
	Value float64 `json:"value"`
}

// FoodPortion is one raw serving-size record from a detail response.
type FoodPortion struct {
	Amount      float64     `json:"amount"`
	GramWeight  float64     `json:"gramWeight"`
	Modifier    string      `json:"modifier"`
	MeasureUnit MeasureUnit `json:"measureUnit"`
}

// MeasureUnit names a portion's unit ("cup", "tablespoon", "undetermined").
type MeasureUnit struct {
	Name string `json:"name"`
}
