package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/renaltrack/backend/config"
	"github.com/renaltrack/backend/internal/domain"
	"github.com/renaltrack/backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubClient serves canned FDC data so handler tests run offline.
type stubClient struct{}

var stubFoods = map[string]*domain.FoodDetail{
	"100": {
		FdcID: 100, Description: "Rice, white, cooked", DataType: "SR Legacy",
		FoodNutrients: []domain.FoodNutrient{
			{Nutrient: domain.NutrientRef{ID: 1008, Name: "Energy"}, Amount: 130},
			{Nutrient: domain.NutrientRef{ID: 1093, Name: "Sodium, Na"}, Amount: 1},
		},
		FoodPortions: []domain.FoodPortion{
			{Amount: 1, GramWeight: 240, MeasureUnit: domain.MeasureUnit{Name: "cup"}},
		},
	},
	"200": {
		FdcID: 200, Description: "Garlic, raw", DataType: "Foundation",
		FoodNutrients: []domain.FoodNutrient{
			{Nutrient: domain.NutrientRef{ID: 1093, Name: "Sodium, Na"}, Amount: 17},
		},
	},
}

func (stubClient) SearchFoods(_ context.Context, query string, _ int) (*domain.FoodSearchResponse, error) {
	q := strings.ToLower(query)
	var foods []domain.FoodSummary
	for _, d := range stubFoods {
		if strings.Contains(strings.ToLower(d.Description), q) {
			foods = append(foods, domain.FoodSummary{
				FdcID: d.FdcID, Description: d.Description, DataType: d.DataType,
			})
		}
	}
	return &domain.FoodSearchResponse{Foods: foods, TotalHits: len(foods)}, nil
}

func (stubClient) GetFoodDetail(_ context.Context, fdcID string) (*domain.FoodDetail, error) {
	if d, ok := stubFoods[fdcID]; ok {
		return d, nil
	}
	return nil, domain.ErrFoodNotFound
}

type memHistory struct {
	days map[string]domain.DiaryDay
}

func (h *memHistory) UpsertDay(_ context.Context, userID string, day domain.DiaryDay) error {
	if h.days == nil {
		h.days = make(map[string]domain.DiaryDay)
	}
	h.days[userID+"/"+day.Date] = day
	return nil
}

func (h *memHistory) ListDays(_ context.Context, userID string) ([]domain.DiaryDay, error) {
	var out []domain.DiaryDay
	for k, d := range h.days {
		if strings.HasPrefix(k, userID+"/") {
			out = append(out, d)
		}
	}
	return out, nil
}

func (h *memHistory) GetDay(_ context.Context, userID, date string) (*domain.DiaryDay, error) {
	if d, ok := h.days[userID+"/"+date]; ok {
		return &d, nil
	}
	return nil, domain.ErrDayNotFound
}

func setupTestRouter() (*gin.Engine, *memHistory) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"*"},
		},
	}

	foods := usecase.NewFoodService(stubClient{}, nil, nil, usecase.FoodServiceConfig{})
	resolver := usecase.NewGramResolver(usecase.DefaultHeuristics(), domain.DefaultUnitRegistry(), foods)
	hist := &memHistory{}
	diary := usecase.NewDiaryService(foods, resolver, hist, usecase.Targets{Sodium: 2000})
	recipes := usecase.NewRecipeService(foods, resolver)

	handler := NewHandler(foods, diary, recipes, hist)
	return SetupRouter(cfg, handler), hist
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHealthCheckEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	w, resp := doJSON(t, router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", resp["status"])
}

func TestSearchFoodsEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	t.Run("returns ranked hits", func(t *testing.T) {
		w, resp := doJSON(t, router, "GET", "/api/v1/foods/search?q=rice", "")
		require.Equal(t, http.StatusOK, w.Code)
		foods := resp["foods"].([]any)
		require.Len(t, foods, 1)
		hit := foods[0].(map[string]any)
		assert.Equal(t, "Rice, white, cooked", hit["description"])
	})

	t.Run("blank query rejected", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/v1/foods/search?q=", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetFoodEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	t.Run("detail with portions and hint", func(t *testing.T) {
		w, resp := doJSON(t, router, "GET", "/api/v1/foods/100", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Rice, white, cooked", resp["description"])
		assert.Equal(t, "cup", resp["defaultUnit"])
		assert.Equal(t, "enter grams or number of cups", resp["hint"])

		per100 := resp["per100"].(map[string]any)
		assert.Equal(t, 130.0, per100["calories"])

		portions := resp["portions"].([]any)
		assert.NotEmpty(t, portions)
	})

	t.Run("unknown food", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/v1/foods/999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPreviewEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	w, resp := doJSON(t, router, "POST", "/api/v1/foods/100/preview", `{"unit":"cup"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 240.0, resp["grams"])
	nutrients := resp["nutrients"].(map[string]any)
	assert.Equal(t, 312.0, nutrients["calories"])

	w, _ = doJSON(t, router, "POST", "/api/v1/foods/100/preview", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiaryFlow(t *testing.T) {
	router, hist := setupTestRouter()

	t.Run("log by unit", func(t *testing.T) {
		w, resp := doJSON(t, router, "POST", "/api/v1/diary/2026-08-28/entries",
			`{"fdcId":"100","quantity":"1.5 cup"}`)
		require.Equal(t, http.StatusOK, w.Code)

		entry := resp["entry"].(map[string]any)
		assert.Equal(t, 360.0, entry["grams"])
		assert.Equal(t, "1.5 × cup (~360 g)", entry["portion"])

		nutrients := entry["nutrients"].(map[string]any)
		assert.Equal(t, 468.0, nutrients["calories"])
		assert.Equal(t, 3.6, nutrients["sodium"])
	})

	t.Run("day view carries progress and insight", func(t *testing.T) {
		w, resp := doJSON(t, router, "GET", "/api/v1/diary/2026-08-28", "")
		require.Equal(t, http.StatusOK, w.Code)

		day := resp["day"].(map[string]any)
		assert.Len(t, day["entries"], 1)
		assert.NotNil(t, resp["progress"])

		top := resp["topSodium"].(map[string]any)
		assert.Equal(t, "Rice, white, cooked", top["name"])
	})

	t.Run("unresolvable quantity returns hint", func(t *testing.T) {
		w, resp := doJSON(t, router, "POST", "/api/v1/diary/2026-08-28/entries",
			`{"fdcId":"100","quantity":"banana boat"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, usecase.QuantityHint, resp["hint"])
	})

	t.Run("sentinel removes the entry", func(t *testing.T) {
		w, resp := doJSON(t, router, "POST", "/api/v1/diary/2026-08-28/entries",
			`{"fdcId":"100","quantity":"0"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, resp["removed"])
	})

	t.Run("copy and finalize", func(t *testing.T) {
		doJSON(t, router, "POST", "/api/v1/diary/2026-08-27/entries",
			`{"fdcId":"100","quantity":"100g"}`)

		w, resp := doJSON(t, router, "POST", "/api/v1/diary/2026-08-28/copy", `{"from":"2026-08-27"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1.0, resp["copied"])

		w, _ = doJSON(t, router, "POST", "/api/v1/diary/2026-08-28/finalize", "")
		require.Equal(t, http.StatusOK, w.Code)
		if _, ok := hist.days["default/2026-08-28"]; !ok {
			t.Error("finalized day missing from history")
		}

		w, resp = doJSON(t, router, "GET", "/api/v1/history/2026-08-28", "")
		require.Equal(t, http.StatusOK, w.Code)
		day := resp["day"].(map[string]any)
		assert.Equal(t, "2026-08-28", day["date"])
	})

	t.Run("clear day", func(t *testing.T) {
		w, _ := doJSON(t, router, "DELETE", "/api/v1/diary/2026-08-28", "")
		require.Equal(t, http.StatusOK, w.Code)

		_, resp := doJSON(t, router, "GET", "/api/v1/diary/2026-08-28", "")
		day := resp["day"].(map[string]any)
		assert.Empty(t, day["entries"])
	})
}

func TestHistoryNotFound(t *testing.T) {
	router, _ := setupTestRouter()
	w, _ := doJSON(t, router, "GET", "/api/v1/history/1999-01-01", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeEndpoints(t *testing.T) {
	router, _ := setupTestRouter()

	t.Run("add line", func(t *testing.T) {
		w, resp := doJSON(t, router, "POST", "/api/v1/recipe/lines", `{"line":"4 garlic cloves"}`)
		require.Equal(t, http.StatusOK, w.Code)
		ing := resp["ingredient"].(map[string]any)
		assert.Equal(t, 12.0, ing["grams"])
		assert.Equal(t, "garlic", ing["name"])
	})

	t.Run("add grams", func(t *testing.T) {
		w, resp := doJSON(t, router, "POST", "/api/v1/recipe/grams",
			`{"name":"rice","fdcId":"100","grams":200}`)
		require.Equal(t, http.StatusOK, w.Code)
		ing := resp["ingredient"].(map[string]any)
		nutrients := ing["nutrients"].(map[string]any)
		assert.Equal(t, 260.0, nutrients["calories"])
	})

	t.Run("build and clear", func(t *testing.T) {
		w, resp := doJSON(t, router, "GET", "/api/v1/recipe?name=garlic+rice", "")
		require.Equal(t, http.StatusOK, w.Code)
		recipe := resp["recipe"].(map[string]any)
		assert.Equal(t, "garlic rice", recipe["name"])
		assert.Equal(t, 212.0, recipe["totalGrams"])

		w, _ = doJSON(t, router, "DELETE", "/api/v1/recipe", "")
		require.Equal(t, http.StatusOK, w.Code)

		_, resp = doJSON(t, router, "GET", "/api/v1/recipe", "")
		recipe = resp["recipe"].(map[string]any)
		assert.Equal(t, 0.0, recipe["totalGrams"])
	})

	t.Run("bad line", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/v1/recipe/lines", `{"line":"no amount"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
