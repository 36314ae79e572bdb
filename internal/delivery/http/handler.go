package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/renaltrack/backend/internal/domain"
	"github.com/renaltrack/backend/internal/usecase"
)

// defaultUserID identifies the diary owner when no X-User-ID header is
// sent. The app is single-user by default; the header exists for
// shared deployments.
const defaultUserID = "default"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	foods   *usecase.FoodService
	diary   *usecase.DiaryService
	recipes *usecase.RecipeService
	history domain.HistoryRepository
}

// NewHandler creates a new HTTP handler. history may be nil.
func NewHandler(foods *usecase.FoodService, diary *usecase.DiaryService, recipes *usecase.RecipeService, history domain.HistoryRepository) *Handler {
	return &Handler{foods: foods, diary: diary, recipes: recipes, history: history}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "renaltrack-backend",
		"version": "1.0.0",
	})
}

// SearchFoods handles GET /foods/search?q=...&limit=...
func (h *Handler) SearchFoods(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	foods, err := h.foods.SearchTop(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

// GetFood handles GET /foods/:fdcId — detail, per-100g profile, portion
// table with its input hint and default unit.
func (h *Handler) GetFood(c *gin.Context) {
	fdcID := c.Param("fdcId")

	detail, err := h.foods.GetDetail(c.Request.Context(), fdcID)
	if err != nil {
		respondError(c, err)
		return
	}

	portions := h.foods.PortionsFor(c.Request.Context(), fdcID, detail.Description)
	c.JSON(http.StatusOK, gin.H{
		"fdcId":       detail.FdcID,
		"description": detail.Description,
		"dataType":    detail.DataType,
		"per100":      h.foods.Per100(detail),
		"portions":    portions,
		"defaultUnit": usecase.PickDefaultUnit(portions),
		"hint":        usecase.BuildHint(portions),
	})
}

type previewRequest struct {
	Unit      string  `json:"unit" binding:"required"`
	UnitGrams float64 `json:"unitGrams"`
}

// PreviewPortion handles POST /foods/:fdcId/preview — scaled nutrients
// for one unit of the food before it is logged.
func (h *Handler) PreviewPortion(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit is required"})
		return
	}

	detail, err := h.foods.GetDetail(c.Request.Context(), c.Param("fdcId"))
	if err != nil {
		respondError(c, err)
		return
	}

	grams, nutrients := usecase.PortionPreview(h.foods.Per100(detail), req.Unit, req.UnitGrams)
	c.JSON(http.StatusOK, gin.H{
		"unit":      req.Unit,
		"grams":     grams,
		"nutrients": nutrients,
	})
}

// GetDiaryDay handles GET /diary/:date
func (h *Handler) GetDiaryDay(c *gin.Context) {
	date := c.Param("date")
	c.JSON(http.StatusOK, gin.H{
		"day":       h.diary.Day(date),
		"progress":  h.diary.ProgressFor(date),
		"topSodium": h.diary.TopSodium(date),
	})
}

type diaryEntryRequest struct {
	FdcID    string `json:"fdcId" binding:"required"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// UpsertDiaryEntry handles POST /diary/:date/entries — applies one
// quantity input, which may add, replace, or remove an entry.
func (h *Handler) UpsertDiaryEntry(c *gin.Context) {
	var req diaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fdcId is required"})
		return
	}

	name := req.Name
	per100 := map[string]any{}
	if detail, err := h.foods.GetDetail(c.Request.Context(), req.FdcID); err == nil {
		per100 = h.foods.Per100(detail).Map()
		if name == "" {
			name = detail.Description
		}
	} else if !usecase.IsRemovalSentinel(req.Quantity) {
		respondError(c, err)
		return
	}

	outcome, entry, err := h.diary.ApplyQuantity(c.Request.Context(), c.Param("date"), req.FdcID, name, per100, req.Quantity)
	if err != nil {
		if errors.Is(err, usecase.ErrUnresolvedQuantity) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "quantity not understood",
				"hint":  usecase.QuantityHint,
			})
			return
		}
		respondError(c, err)
		return
	}

	switch outcome {
	case usecase.UpdateRemoved:
		c.JSON(http.StatusOK, gin.H{"removed": true, "totals": h.diary.Totals(c.Param("date"))})
	case usecase.UpdateApplied:
		c.JSON(http.StatusOK, gin.H{"entry": entry, "totals": h.diary.Totals(c.Param("date"))})
	default:
		c.JSON(http.StatusOK, gin.H{"changed": false})
	}
}

type copyDayRequest struct {
	From string `json:"from" binding:"required"`
}

// CopyDiaryDay handles POST /diary/:date/copy — copies another day's
// entries over this one.
func (h *Handler) CopyDiaryDay(c *gin.Context) {
	var req copyDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from date is required"})
		return
	}
	n := h.diary.CopyDay(req.From, c.Param("date"))
	c.JSON(http.StatusOK, gin.H{"copied": n})
}

// ClearDiaryDay handles DELETE /diary/:date
func (h *Handler) ClearDiaryDay(c *gin.Context) {
	h.diary.ClearDay(c.Param("date"))
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// FinalizeDiaryDay handles POST /diary/:date/finalize — persists the
// working day to history.
func (h *Handler) FinalizeDiaryDay(c *gin.Context) {
	day, err := h.diary.FinalizeDay(c.Request.Context(), userID(c), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day})
}

// ListHistory handles GET /history
func (h *Handler) ListHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"days": []domain.DiaryDay{}})
		return
	}
	days, err := h.history.ListDays(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if days == nil {
		days = []domain.DiaryDay{}
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GetHistoryDay handles GET /history/:date
func (h *Handler) GetHistoryDay(c *gin.Context) {
	if h.history == nil {
		respondError(c, domain.ErrDayNotFound)
		return
	}
	day, err := h.history.GetDay(c.Request.Context(), userID(c), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day})
}

type recipeLineRequest struct {
	Line string `json:"line" binding:"required"`
}

// AddRecipeLine handles POST /recipe/lines
func (h *Handler) AddRecipeLine(c *gin.Context) {
	var req recipeLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "line is required"})
		return
	}
	ing, err := h.recipes.AddLine(c.Request.Context(), req.Line)
	if err != nil {
		if errors.Is(err, usecase.ErrUnresolvedQuantity) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "quantity not understood",
				"hint":  usecase.QuantityHint,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient": ing})
}

type recipeGramsRequest struct {
	Name  string  `json:"name" binding:"required"`
	FdcID string  `json:"fdcId"`
	Grams float64 `json:"grams" binding:"required"`
}

// AddRecipeGrams handles POST /recipe/grams — adds an ingredient whose
// weight is already known, fetching nutrients by FDC ID when given.
func (h *Handler) AddRecipeGrams(c *gin.Context) {
	var req recipeGramsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and grams are required"})
		return
	}

	var per100 domain.NutrientProfile
	if req.FdcID != "" {
		detail, err := h.foods.GetDetail(c.Request.Context(), req.FdcID)
		if err != nil {
			respondError(c, err)
			return
		}
		per100 = h.foods.Per100(detail)
	}

	ing, err := h.recipes.AddByGrams(req.Name, req.FdcID, per100, req.Grams)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient": ing})
}

// RemoveRecipeLine handles DELETE /recipe/lines/:index
func (h *Handler) RemoveRecipeLine(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || !h.recipes.Remove(i) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such ingredient"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// ClearRecipe handles DELETE /recipe
func (h *Handler) ClearRecipe(c *gin.Context) {
	h.recipes.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// GetRecipe handles GET /recipe?name=... — the assembled recipe with
// totals and its gram-weighted per-100g profile.
func (h *Handler) GetRecipe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recipe": h.recipes.Build(c.DefaultQuery("name", "recipe"))})
}

func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return defaultUserID
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFoodNotFound), errors.Is(err, domain.ErrDayNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUSDAAPIFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
