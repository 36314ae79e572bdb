package usecase

import (
	"context"
	"testing"

	"github.com/renaltrack/backend/internal/domain"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line string
		qty  float64
		unit string
		name string
		ok   bool
	}{
		{"2 cups rice", 2, "cup", "rice", true},
		{"4 garlic cloves", 4, "clove", "garlic", true},
		{"1 onion", 1, "whole", "onion", true},
		{"1/2 cup chopped celery", 0.5, "cup", "chopped celery", true},
		{"1 lb ground beef", 1, "pound", "ground beef", true},
		{"100 g chicken", 100, "g", "chicken", true},
		{"2 roma tomatoes", 2, "whole", "roma tomatoes", true},
		{"rice", 0, "", "", false},
		{"some rice", 0, "", "", false},
		{"0 cups rice", 0, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			qty, unit, name, ok := ParseIngredientLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if !almostEqual(qty, tt.qty) || unit != tt.unit || name != tt.name {
				t.Errorf("got (%v, %q, %q), want (%v, %q, %q)",
					qty, unit, name, tt.qty, tt.unit, tt.name)
			}
		})
	}
}

func newTestRecipeService(client *mockFoodClient) *RecipeService {
	foods := NewFoodService(client, nil, nil, FoodServiceConfig{})
	resolver := NewGramResolver(DefaultHeuristics(), domain.DefaultUnitRegistry(), nil)
	return NewRecipeService(foods, resolver)
}

func garlicClient() *mockFoodClient {
	return &mockFoodClient{
		searchResp: &domain.FoodSearchResponse{Foods: []domain.FoodSummary{
			{FdcID: 7, Description: "Garlic, raw", DataType: "Foundation"},
		}},
		details: map[string]*domain.FoodDetail{
			"7": {FdcID: 7, Description: "Garlic, raw", FoodNutrients: []domain.FoodNutrient{
				{Nutrient: domain.NutrientRef{ID: 1093, Name: "Sodium, Na"}, Amount: 17},
			}},
		},
	}
}

func TestRecipeAddLine(t *testing.T) {
	svc := newTestRecipeService(garlicClient())

	ing, err := svc.AddLine(context.Background(), "4 garlic cloves")
	if err != nil {
		t.Fatal(err)
	}
	if ing.Grams != 12 {
		t.Errorf("grams = %v, want 12 (4 heuristic cloves)", ing.Grams)
	}
	if ing.FdcID != "7" || ing.Name != "garlic" {
		t.Errorf("ingredient = %+v", ing)
	}
	if !almostEqual(ing.Nutrients.Sodium, 2.04) {
		t.Errorf("sodium = %v, want 2.04", ing.Nutrients.Sodium)
	}
}

func TestRecipeAddLineErrors(t *testing.T) {
	svc := newTestRecipeService(garlicClient())

	if _, err := svc.AddLine(context.Background(), "no amount here"); err == nil {
		t.Error("expected parse error")
	}

	empty := newTestRecipeService(&mockFoodClient{})
	if _, err := empty.AddLine(context.Background(), "1 onion"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestRecipeBuild(t *testing.T) {
	svc := newTestRecipeService(&mockFoodClient{})

	per100 := Normalize(map[string]any{"Sodium": 10.0, "Calories": 200.0})
	if _, err := svc.AddByGrams("pasta", "1", per100, 300); err != nil {
		t.Fatal(err)
	}
	per100b := Normalize(map[string]any{"Sodium": 50.0, "Calories": 80.0})
	if _, err := svc.AddByGrams("sauce", "2", per100b, 100); err != nil {
		t.Fatal(err)
	}

	r := svc.Build("pasta with sauce")
	if r.TotalGrams != 400 || len(r.Ingredients) != 2 {
		t.Fatalf("recipe = %+v", r)
	}
	// 300g pasta: 30mg Na, 600 kcal; 100g sauce: 50mg Na, 80 kcal
	if r.Totals.Sodium != 80 || r.Totals.Calories != 680 {
		t.Errorf("totals = %+v", r.Totals)
	}
	if !almostEqual(r.Per100.Sodium, 20) || !almostEqual(r.Per100.Calories, 170) {
		t.Errorf("per100 = %+v", r.Per100)
	}

	// the blend scales like a single food
	serving := Scale(r.Per100, 50)
	if !almostEqual(serving.Sodium, 10) {
		t.Errorf("serving sodium = %v, want 10", serving.Sodium)
	}
}

func TestRecipeRemoveAndClear(t *testing.T) {
	svc := newTestRecipeService(&mockFoodClient{})
	per100 := Normalize(map[string]any{"Calories": 100.0})
	svc.AddByGrams("a", "1", per100, 100)
	svc.AddByGrams("b", "2", per100, 100)

	if !svc.Remove(0) {
		t.Fatal("remove failed")
	}
	if svc.Remove(5) {
		t.Error("out-of-range remove succeeded")
	}
	if r := svc.Build("x"); len(r.Ingredients) != 1 || r.Ingredients[0].Name != "b" {
		t.Errorf("recipe = %+v", r)
	}

	svc.Clear()
	if r := svc.Build("x"); len(r.Ingredients) != 0 || r.TotalGrams != 0 {
		t.Errorf("recipe after clear = %+v", r)
	}
}
