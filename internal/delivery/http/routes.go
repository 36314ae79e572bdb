package http

import (
	"github.com/gin-gonic/gin"
	"github.com/renaltrack/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		foods := v1.Group("/foods")
		{
			foods.GET("/search", handler.SearchFoods)
			foods.GET("/:fdcId", handler.GetFood)
			foods.POST("/:fdcId/preview", handler.PreviewPortion)
		}

		diary := v1.Group("/diary")
		{
			diary.GET("/:date", handler.GetDiaryDay)
			diary.POST("/:date/entries", handler.UpsertDiaryEntry)
			diary.POST("/:date/copy", handler.CopyDiaryDay)
			diary.POST("/:date/finalize", handler.FinalizeDiaryDay)
			diary.DELETE("/:date", handler.ClearDiaryDay)
		}

		history := v1.Group("/history")
		{
			history.GET("", handler.ListHistory)
			history.GET("/:date", handler.GetHistoryDay)
		}

		recipe := v1.Group("/recipe")
		{
			recipe.GET("", handler.GetRecipe)
			recipe.POST("/lines", handler.AddRecipeLine)
			recipe.POST("/grams", handler.AddRecipeGrams)
			recipe.DELETE("/lines/:index", handler.RemoveRecipeLine)
			recipe.DELETE("", handler.ClearRecipe)
		}
	}

	return router
}
