package main

import (
	"fmt"
	"log"
	"os"

	"github.com/renaltrack/backend/config"
	httpDelivery "github.com/renaltrack/backend/internal/delivery/http"
	"github.com/renaltrack/backend/internal/infrastructure/cache"
	"github.com/renaltrack/backend/internal/infrastructure/history"
	"github.com/renaltrack/backend/internal/infrastructure/localdata"
	"github.com/renaltrack/backend/internal/infrastructure/usda"
	"github.com/renaltrack/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting RenalTrack Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Infrastructure
	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL)
	if cfg.Server.Environment == "development" || cfg.USDA.Debug {
		usdaClient.SetDebug(true)
		log.Printf("USDA client debug mode enabled")
	}
	log.Printf("USDA API configured: %s", cfg.USDA.BaseURL)

	registry, err := localdata.LoadUnitRegistry(cfg.Data.UnitRegistryPath)
	if err != nil {
		log.Fatalf("Failed to load unit registry: %v", err)
	}
	log.Printf("Unit registry: %d defaults, %d ingredient rules", len(registry.Defaults), len(registry.Items))

	portionRef, err := localdata.LoadPortionRef(cfg.Data.PortionRefPath)
	if err != nil {
		log.Fatalf("Failed to load portion reference: %v", err)
	}

	historyStore, err := history.Open(cfg.Data.HistoryDBPath)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer historyStore.Close()
	log.Printf("History database: %s", cfg.Data.HistoryDBPath)

	// Usecase layer
	foodService := usecase.NewFoodService(usdaClient, memoryCache, portionRef, usecase.FoodServiceConfig{
		CacheTTL:       cfg.Cache.TTL,
		SearchPageSize: cfg.USDA.SearchPageSize,
	})

	resolver := usecase.NewGramResolver(usecase.DefaultHeuristics(), registry, foodService)

	targets := usecase.Targets{
		Sodium:    cfg.Targets.SodiumMg,
		Potassium: cfg.Targets.PotassiumMg,
		Protein:   cfg.Targets.ProteinG,
		Calories:  cfg.Targets.Calories,
	}
	log.Printf("Daily targets: sodium=%.0fmg potassium=%.0fmg protein=%.0fg calories=%.0f",
		targets.Sodium, targets.Potassium, targets.Protein, targets.Calories)

	diaryService := usecase.NewDiaryService(foodService, resolver, historyStore, targets)
	recipeService := usecase.NewRecipeService(foodService, resolver)

	// HTTP delivery
	handler := httpDelivery.NewHandler(foodService, diaryService, recipeService, historyStore)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
