package domain

import (
	"context"
	"time"
)

// FoodDataClient defines the interface for the USDA FoodData Central API.
type FoodDataClient interface {
	SearchFoods(ctx context.Context, query string, pageSize int) (*FoodSearchResponse, error)
	GetFoodDetail(ctx context.Context, fdcID string) (*FoodDetail, error)
}

// DetailCache defines the interface for caching food detail lookups.
type DetailCache interface {
	Get(ctx context.Context, key string) (*FoodDetail, error)
	Set(ctx context.Context, key string, detail *FoodDetail, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PortionFinder locates portion tables for a food by free-text name.
// The gram resolver uses it as a fallback when the primary food record
// has no usable portion for the requested unit.
type PortionFinder interface {
	FindPortionsForName(ctx context.Context, name string) []Portion
}

// LocalPortionRef is a static, locally-loaded portion reference, the
// last data source tried before heuristic weights when a food has no
// portions of its own.
type LocalPortionRef interface {
	FindForName(name string) []Portion
}

// HistoryRepository persists finalized diary days per user.
type HistoryRepository interface {
	UpsertDay(ctx context.Context, userID string, day DiaryDay) error
	ListDays(ctx context.Context, userID string) ([]DiaryDay, error)
	GetDay(ctx context.Context, userID, date string) (*DiaryDay, error)
}
