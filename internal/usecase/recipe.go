package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/renaltrack/backend/internal/domain"
)

// RecipeIngredient is one resolved line of a recipe.
type RecipeIngredient struct {
	Name      string                 `json:"name"`
	FdcID     string                 `json:"fdcId"`
	Grams     float64                `json:"grams"`
	Portion   string                 `json:"portion"`
	Nutrients domain.NutrientProfile `json:"nutrients"`
}

// Recipe is a named set of ingredients with totals and a synthetic
// per-100g profile, so the finished dish can be logged like any food.
type Recipe struct {
	Name        string                 `json:"name"`
	Ingredients []RecipeIngredient     `json:"ingredients"`
	TotalGrams  float64                `json:"totalGrams"`
	Totals      domain.NutrientProfile `json:"totals"`
	Per100      domain.NutrientProfile `json:"per100"`
}

// RecipeService resolves free-text ingredient lines ("4 garlic cloves",
// "1 onion", "2 cups rice") into weighed, nutrient-scaled ingredients.
type RecipeService struct {
	foods    *FoodService
	resolver *GramResolver

	mu    sync.Mutex
	items []RecipeIngredient
}

// NewRecipeService creates a recipe service over the food lookup and
// gram resolution services.
func NewRecipeService(foods *FoodService, resolver *GramResolver) *RecipeService {
	return &RecipeService{foods: foods, resolver: resolver}
}

// ParseIngredientLine splits an ingredient line into count, canonical
// unit and food name. A line with no unit word counts whole items:
// "1 onion" is one whole onion. ok is false when the line does not
// start with a number.
func ParseIngredientLine(line string) (qty float64, unit, name string, ok bool) {
	s := strings.ToLower(strings.TrimSpace(line))
	s = strings.ReplaceAll(s, ",", " ")
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return 0, "", "", false
	}

	qty, err := parseNumber(fields[0])
	if err != nil || qty <= 0 {
		return 0, "", "", false
	}

	rest := fields[1:]
	if canon := canonicalUnit(rest[0]); canon != "" && len(rest) > 1 {
		return qty, canon, strings.Join(rest[1:], " "), true
	}
	// "4 garlic cloves": the unit word may trail the name.
	if last := canonicalUnit(rest[len(rest)-1]); last != "" && len(rest) > 1 {
		return qty, last, strings.Join(rest[:len(rest)-1], " "), true
	}
	return qty, "whole", strings.Join(rest, " "), true
}

// canonicalUnit folds a token onto its synonym group's canonical unit,
// or "" when the token is not a unit word.
func canonicalUnit(token string) string {
	t := strings.TrimSuffix(token, "s")
	if t == "g" || t == "gram" {
		return "g"
	}
	for canon, syns := range unitSynonyms {
		if t == canon {
			return canon
		}
		for _, s := range syns {
			if token == s || t == s {
				return canon
			}
		}
	}
	return ""
}

// AddLine resolves one ingredient line against the food database and
// appends it to the working recipe.
func (s *RecipeService) AddLine(ctx context.Context, line string) (*RecipeIngredient, error) {
	qty, unit, name, ok := ParseIngredientLine(line)
	if !ok {
		return nil, fmt.Errorf("%w: unparseable ingredient line %q", domain.ErrInvalidRequest, line)
	}

	fdcID := s.foods.BestFdcFor(ctx, name)
	if fdcID == "" {
		return nil, fmt.Errorf("%w: no food found for %q", domain.ErrFoodNotFound, name)
	}
	detail, err := s.foods.GetDetail(ctx, fdcID)
	if err != nil {
		return nil, err
	}
	per100 := s.foods.Per100(detail)
	portions := s.foods.PortionsFor(ctx, fdcID, name)

	var grams float64
	if unit == "g" {
		grams = qty
	} else {
		grams = s.resolver.resolveUnit(ctx, name, unit, qty, portions)
	}
	if grams <= 0 {
		return nil, fmt.Errorf("%w: %q of %q", ErrUnresolvedQuantity, line, name)
	}

	ing := RecipeIngredient{
		Name:      name,
		FdcID:     fdcID,
		Grams:     round2(grams),
		Portion:   portionHuman(domain.ResolvedPortion{Grams: grams, Unit: unit, Qty: qty}),
		Nutrients: roundProfile(Scale(per100, grams)),
	}

	s.mu.Lock()
	s.items = append(s.items, ing)
	s.mu.Unlock()
	return &ing, nil
}

// AddByGrams appends an ingredient whose weight is already known.
func (s *RecipeService) AddByGrams(name, fdcID string, per100 domain.NutrientProfile, grams float64) (*RecipeIngredient, error) {
	if grams <= 0 {
		return nil, fmt.Errorf("%w: grams must be positive", domain.ErrInvalidRequest)
	}
	ing := RecipeIngredient{
		Name:      name,
		FdcID:     fdcID,
		Grams:     round2(grams),
		Portion:   fmt.Sprintf("%.0f g", grams),
		Nutrients: roundProfile(Scale(per100, grams)),
	}
	s.mu.Lock()
	s.items = append(s.items, ing)
	s.mu.Unlock()
	return &ing, nil
}

// Remove drops the ingredient at index i.
func (s *RecipeService) Remove(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Clear drops all working ingredients.
func (s *RecipeService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Build assembles the working ingredients into a recipe. The per-100g
// profile is the gram-weighted blend of the ingredient profiles, so a
// serving of the dish can be scaled like a single food.
func (s *RecipeService) Build(name string) Recipe {
	s.mu.Lock()
	items := make([]RecipeIngredient, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	var totals domain.NutrientProfile
	var totalGrams float64
	for _, ing := range items {
		totals = totals.Add(ing.Nutrients)
		totalGrams += ing.Grams
	}

	var per100 domain.NutrientProfile
	if totalGrams > 0 {
		for _, n := range domain.CanonicalNutrients {
			per100.Set(n, round2(totals.Get(n)*100/totalGrams))
		}
	}
	return Recipe{
		Name:        name,
		Ingredients: items,
		TotalGrams:  round2(totalGrams),
		Totals:      roundProfile(totals),
		Per100:      per100,
	}
}
