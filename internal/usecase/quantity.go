package usecase

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/renaltrack/backend/internal/domain"
)

// Fixed mass conversions, the last resort for lb/oz.
const (
	gramsPerPound = 453.592
	gramsPerOunce = 28.3495
)

// QuantityHint is the user-facing message for unparseable or
// unresolvable quantity input.
const QuantityHint = "Please enter e.g. 100g · // (=1) · 2// · 1 cup · 2 tbsp · 1 cracker · or 0 to clear."

// Package-level compiled patterns for the quantity grammar. A "number"
// is a decimal or a simple fraction like 2/3.
var (
	gramsPattern    = regexp.MustCompile(`^(\d+(?:\.\d+)?|\d+\s*/\s*\d+)\s*(?:g|gram|grams)$`)
	slashesPattern  = regexp.MustCompile(`^/+$`)
	numSlashPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*/+$`)
	numberPattern   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	numUnitPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?|\d+\s*/\s*\d+)\s*([a-z]+)$`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	dashReplacer    = strings.NewReplacer("–", "-", "—", "-")
)

// unitTokenMap folds unit spellings the parser accepts onto canonical
// tokens before resolution. "tablespoons"/"teaspoons" have no entry and
// pass through unchanged; the portion synonym groups cover them.
var unitTokenMap = map[string]string{
	"tablespoon": "tbsp", "tbsp": "tbsp", "tbs": "tbsp",
	"teaspoon": "tsp", "tsp": "tsp",
	"cups": "cup", "cup": "cup",
	"cloves": "clove", "clove": "clove",
	"pieces": "piece", "piece": "piece",
	"ounces": "oz", "ounce": "oz", "oz": "oz",
	"pounds": "lb", "pound": "lb", "lb": "lb", "lbs": "lb",
	"g": "g", "gram": "g", "grams": "g",
	"slice": "slice", "slices": "slice",
	"cracker": "cracker", "crackers": "cracker",
	"whole": "whole",
}

// removalSentinels mean "remove this entry", not "zero grams". Callers
// must check IsRemovalSentinel before parsing.
var removalSentinels = map[string]struct{}{
	"0": {}, "clear": {}, "none": {}, "x": {},
}

// IsRemovalSentinel reports whether the input asks for entry removal.
func IsRemovalSentinel(text string) bool {
	_, ok := removalSentinels[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// ParseQuantity parses free-text quantity input into a structured
// intent. ok is false for empty or unrecognized input.
//
// Accepted forms: "100g", "200 g", "2/3 cup", "1.5 tbsp", "1 cracker",
// "2 oz", "1 lb", "2", "//", "2//".
func ParseQuantity(text string) (q domain.Quantity, ok bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return q, false
	}
	s = dashReplacer.Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")

	if m := gramsPattern.FindStringSubmatch(s); m != nil {
		v, err := parseNumber(m[1])
		if err != nil {
			return q, false
		}
		return domain.Quantity{Kind: domain.QuantityGrams, Value: v}, true
	}

	// "///" counts one default unit per slash.
	if slashesPattern.MatchString(s) {
		return domain.Quantity{Kind: domain.QuantityDefaultUnits, Value: float64(len(s))}, true
	}

	// "2//": the leading number is the count; trailing slashes are a
	// visual affordance and contribute nothing.
	if m := numSlashPattern.FindStringSubmatch(s); m != nil {
		v, err := parseNumber(m[1])
		if err != nil {
			return q, false
		}
		return domain.Quantity{Kind: domain.QuantityDefaultUnits, Value: v}, true
	}

	if numberPattern.MatchString(s) {
		v, err := parseNumber(s)
		if err != nil {
			return q, false
		}
		return domain.Quantity{Kind: domain.QuantityDefaultUnits, Value: v}, true
	}

	if m := numUnitPattern.FindStringSubmatch(s); m != nil {
		v, err := parseNumber(m[1])
		if err != nil {
			return q, false
		}
		unit := m[2]
		if canon, found := unitTokenMap[unit]; found {
			unit = canon
		}
		return domain.Quantity{Kind: domain.QuantityUnits, Value: v, Unit: unit}, true
	}

	return q, false
}

// parseNumber handles decimals and simple fractions ("2/3").
func parseNumber(s string) (float64, error) {
	if num, den, found := strings.Cut(s, "/"); found {
		a, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, err
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, err
		}
		return a / b, nil
	}
	return strconv.ParseFloat(s, 64)
}

// HeuristicRule maps foods whose names match Pattern to typical gram
// weights per single unit.
type HeuristicRule struct {
	Pattern *regexp.Regexp
	Units   map[string]float64
}

var (
	defaultHeuristicsOnce sync.Once
	defaultHeuristics     []HeuristicRule
)

// DefaultHeuristics returns the built-in per-food-name weight table.
// Rules are tried in order; the first rule that matches the food name
// and defines the requested unit wins.
func DefaultHeuristics() []HeuristicRule {
	defaultHeuristicsOnce.Do(func() {
		defaultHeuristics = []HeuristicRule{
			{regexp.MustCompile(`\bcracker(s)?\b|\bcrisp'?n?\s*light\b|\bsaltine(s)?\b|\britz\b`),
				map[string]float64{"cracker": 4.0, "piece": 4.0}},
			{regexp.MustCompile(`\bgarlic\b`),
				map[string]float64{"clove": 3.0, "whole": 3.0, "tbsp": 8.5, "tsp": 2.8}},
			{regexp.MustCompile(`\btomato,\s*roma\b|\broma\s+tomato\b`),
				map[string]float64{"whole": 62.0, "cup": 180.0}},
			{regexp.MustCompile(`\btomato\b`),
				map[string]float64{"whole": 123.0, "cup": 180.0}},
			{regexp.MustCompile(`\bonion\b`),
				map[string]float64{"whole": 110.0, "cup": 160.0}},
			{regexp.MustCompile(`\bpepperoncini\b`),
				map[string]float64{"whole": 10.0}},
			{regexp.MustCompile(`\bchicken\s+thigh\b`),
				map[string]float64{"whole": 80.0}},
		}
	})
	return defaultHeuristics
}

// GramResolver turns (food name, unit, count) into grams by escalating
// through increasingly generic strategies. Each tier runs only after
// the previous produced no positive gram weight.
type GramResolver struct {
	heuristics []HeuristicRule
	registry   domain.UnitRegistry
	altFinder  domain.PortionFinder // optional
	chain      []resolverFunc
}

type resolverFunc func(ctx context.Context, foodName, unit string, qty float64, portions []domain.Portion) float64

// NewGramResolver builds a resolver over the given static tables.
// altFinder may be nil, in which case the alternate-food tier is skipped.
func NewGramResolver(heuristics []HeuristicRule, registry domain.UnitRegistry, altFinder domain.PortionFinder) *GramResolver {
	r := &GramResolver{heuristics: heuristics, registry: registry, altFinder: altFinder}
	r.chain = []resolverFunc{
		r.fromPortions,
		r.fromHeuristics,
		r.fromAlternates,
		r.fromRegistry,
		r.fromMassConstants,
	}
	return r
}

// ResolveGrams parses quantity text and resolves it against the food's
// portion table. Failure is grams == 0, never an error; the typed (or
// chosen default) unit and count are preserved for error display.
func (r *GramResolver) ResolveGrams(ctx context.Context, foodName, text string, portions []domain.Portion) domain.ResolvedPortion {
	q, ok := ParseQuantity(text)
	if !ok {
		return domain.ResolvedPortion{}
	}

	switch q.Kind {
	case domain.QuantityGrams:
		if q.Value <= 0 {
			return domain.ResolvedPortion{}
		}
		return domain.ResolvedPortion{Grams: q.Value, Unit: "g", Qty: q.Value}

	case domain.QuantityDefaultUnits:
		unit := PickDefaultUnit(portions)
		return domain.ResolvedPortion{
			Grams: r.resolveUnit(ctx, foodName, unit, q.Value, portions),
			Unit:  unit,
			Qty:   q.Value,
		}

	case domain.QuantityUnits:
		return domain.ResolvedPortion{
			Grams: r.resolveUnit(ctx, foodName, q.Unit, q.Value, portions),
			Unit:  q.Unit,
			Qty:   q.Value,
		}
	}
	return domain.ResolvedPortion{}
}

// resolveUnit runs the fallback chain in order until a tier yields a
// positive gram weight.
func (r *GramResolver) resolveUnit(ctx context.Context, foodName, unit string, qty float64, portions []domain.Portion) float64 {
	if qty <= 0 {
		return 0
	}
	for _, resolve := range r.chain {
		if g := resolve(ctx, foodName, unit, qty, portions); g > 0 {
			return g
		}
	}
	return 0
}

func (r *GramResolver) fromPortions(_ context.Context, _, unit string, qty float64, portions []domain.Portion) float64 {
	if p := MatchPortion(portions, unit); p != nil {
		return p.GramWeight * qty
	}
	return 0
}

func (r *GramResolver) fromHeuristics(_ context.Context, foodName, unit string, qty float64, _ []domain.Portion) float64 {
	name := normalizeFoodName(foodName)
	u := normalizeUnitToken(unit)
	for _, rule := range r.heuristics {
		if !rule.Pattern.MatchString(name) {
			continue
		}
		if g, ok := rule.Units[u]; ok {
			return g * qty
		}
	}
	return 0
}

func (r *GramResolver) fromAlternates(ctx context.Context, foodName, unit string, qty float64, _ []domain.Portion) float64 {
	if r.altFinder == nil {
		return 0
	}
	alt := r.altFinder.FindPortionsForName(ctx, foodName)
	if p := MatchPortion(alt, unit); p != nil {
		return p.GramWeight * qty
	}
	return 0
}

func (r *GramResolver) fromRegistry(_ context.Context, foodName, unit string, qty float64, _ []domain.Portion) float64 {
	name := normalizeFoodName(foodName)
	u := normalizeUnitToken(unit)
	for _, item := range r.registry.Items {
		if !item.Pattern.MatchString(name) {
			continue
		}
		if g, ok := item.Units[u]; ok {
			return g * qty
		}
	}
	if g, ok := r.registry.Defaults[u]; ok {
		return g * qty
	}
	return 0
}

func (r *GramResolver) fromMassConstants(_ context.Context, _, unit string, qty float64, _ []domain.Portion) float64 {
	switch normalizeUnitToken(unit) {
	case "lb", "pound":
		return qty * gramsPerPound
	case "oz", "ounce":
		return qty * gramsPerOunce
	}
	return 0
}

func normalizeFoodName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
}

func normalizeUnitToken(unit string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), "s")
}

var (
	standaloneResolverOnce sync.Once
	standaloneResolver     *GramResolver
)

// ResolveGrams resolves quantity text with the built-in tables and no
// alternate-food search. The full service path injects its own resolver.
func ResolveGrams(foodName, text string, portions []domain.Portion) domain.ResolvedPortion {
	standaloneResolverOnce.Do(func() {
		standaloneResolver = NewGramResolver(DefaultHeuristics(), domain.DefaultUnitRegistry(), nil)
	})
	return standaloneResolver.ResolveGrams(context.Background(), foodName, text, portions)
}
