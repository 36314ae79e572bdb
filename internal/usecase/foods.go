package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/renaltrack/backend/internal/domain"
	"github.com/renaltrack/backend/internal/infrastructure/usda"
)

// FoodServiceConfig holds configuration for the food service.
type FoodServiceConfig struct {
	CacheTTL       time.Duration
	SearchPageSize int
}

// FoodService looks up food details and portion tables, caching detail
// records. It also implements domain.PortionFinder for the gram
// resolver's alternate-food fallback tier.
type FoodService struct {
	client   domain.FoodDataClient
	cache    domain.DetailCache
	localRef domain.LocalPortionRef // optional
	cacheTTL time.Duration
	pageSize int
}

// NewFoodService creates a food service. localRef may be nil.
func NewFoodService(client domain.FoodDataClient, cache domain.DetailCache, localRef domain.LocalPortionRef, cfg FoodServiceConfig) *FoodService {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 720 * time.Hour // 30 days
	}
	pageSize := cfg.SearchPageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	return &FoodService{
		client:   client,
		cache:    cache,
		localRef: localRef,
		cacheTTL: ttl,
		pageSize: pageSize,
	}
}

// GetDetail fetches a food detail record, trying the cache first.
func (s *FoodService) GetDetail(ctx context.Context, fdcID string) (*domain.FoodDetail, error) {
	if fdcID == "" {
		return nil, domain.ErrInvalidRequest
	}

	key := "food:" + fdcID
	if s.cache != nil {
		if detail, err := s.cache.Get(ctx, key); err == nil && detail != nil {
			return detail, nil
		}
	}

	detail, err := s.client.GetFoodDetail(ctx, fdcID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Best effort; a failed cache write must not fail the lookup.
		_ = s.cache.Set(ctx, key, detail, s.cacheTTL)
	}
	return detail, nil
}

// Per100 extracts the canonical per-100g profile from a detail record.
func (s *FoodService) Per100(detail *domain.FoodDetail) domain.NutrientProfile {
	return usda.MapPer100(detail)
}

// SearchTop searches foods and orders the hits by data-type preference.
func (s *FoodService) SearchTop(ctx context.Context, query string, limit int) ([]domain.FoodSummary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if limit <= 0 {
		limit = 10
	}
	resp, err := s.client.SearchFoods(ctx, query, s.pageSize)
	if err != nil {
		return nil, err
	}
	ranked := usda.RankByDataType(resp.Foods)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// BestFdcFor returns the preferred FDC ID for a free-text food name,
// or "" when nothing was found.
func (s *FoodService) BestFdcFor(ctx context.Context, query string) string {
	ranked, err := s.SearchTop(ctx, query, 1)
	if err != nil || len(ranked) == 0 {
		return ""
	}
	return strconv.Itoa(ranked[0].FdcID)
}

// PortionsFor builds the portion table for a food: the record's own
// portions, else portions of an alternate food with a related name,
// else the local portion reference. Derived common volumes are
// appended and entries without a positive gram weight dropped.
func (s *FoodService) PortionsFor(ctx context.Context, fdcID, description string) []domain.Portion {
	var parts []domain.Portion

	if isNumeric(fdcID) {
		if detail, err := s.GetDetail(ctx, fdcID); err == nil {
			parts = BuildPortions(detail.FoodPortions)
		}
	}
	if len(parts) == 0 && description != "" {
		parts = s.FindPortionsForName(ctx, description)
	}
	if len(parts) == 0 && description != "" && s.localRef != nil {
		parts = s.localRef.FindForName(description)
	}
	if len(parts) > 0 {
		parts = DeriveCommonVolumes(parts)
	}

	out := make([]domain.Portion, 0, len(parts))
	for i, p := range parts {
		if p.GramWeight <= 0 {
			continue
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("p%d", i)
		}
		if p.Label == "" {
			if p.Unit != "" {
				p.Label = p.Unit
			} else {
				p.Label = "portion"
			}
		}
		p.Unit = strings.ToLower(p.Unit)
		out = append(out, p)
	}
	return out
}

// FindPortionsForName searches for another food record with the same or
// a closely related name and returns its derived portion table. It
// implements domain.PortionFinder.
func (s *FoodService) FindPortionsForName(ctx context.Context, name string) []domain.Portion {
	if parts := s.searchAndTakePortions(ctx, name); len(parts) > 0 {
		return parts
	}
	for _, variant := range nameVariants(name) {
		if parts := s.searchAndTakePortions(ctx, variant); len(parts) > 0 {
			return parts
		}
	}
	return nil
}

// searchAndTakePortions returns the derived portions of the first
// search hit that has any.
func (s *FoodService) searchAndTakePortions(ctx context.Context, query string) []domain.Portion {
	hits, err := s.SearchTop(ctx, query, 20)
	if err != nil {
		return nil
	}
	for _, h := range hits {
		detail, err := s.GetDetail(ctx, strconv.Itoa(h.FdcID))
		if err != nil {
			continue
		}
		if parts := BuildPortions(detail.FoodPortions); len(parts) > 0 {
			return DeriveCommonVolumes(parts)
		}
	}
	return nil
}

// nameVariants maps between the comma-inverted and natural spellings a
// food name may use in the source data.
func nameVariants(name string) []string {
	n := strings.ToLower(name)
	var variants []string
	if strings.Contains(n, "tomato, roma") {
		variants = append(variants, "roma tomato")
	}
	if strings.Contains(n, "roma tomato") {
		variants = append(variants, "tomato, roma")
	}
	return variants
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
