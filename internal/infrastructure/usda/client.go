package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/renaltrack/backend/internal/domain"
	"golang.org/x/time/rate"
)

// dataTypes restricts searches to the data types the app understands.
const dataTypes = "Foundation,SR Legacy,Survey (FNDDS),Branded"

// preferredDataTypes orders search hits for recipe-style lookups:
// canonical reference data beats legacy beats survey beats branded.
var preferredDataTypes = []string{"Foundation", "SR Legacy", "Survey (FNDDS)", "Branded"}

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new FDC API client
func NewClient(apiKey, baseURL string) *Client {
	// USDA allows 1000 requests per hour: 1000/3600 ≈ 0.278 requests/sec
	limiter := rate.NewLimiter(rate.Limit(0.278), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging.
func (c *Client) SetDebug(debug bool) { c.debug = debug }

func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "RenalTrack/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}
	return resp, nil
}

// SearchFoods searches the FDC database.
func (c *Client) SearchFoods(ctx context.Context, query string, pageSize int) (*domain.FoodSearchResponse, error) {
	if pageSize <= 0 {
		pageSize = 25
	}

	endpoint := fmt.Sprintf("%s/v1/foods/search", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", dataTypes)
	params.Add("pageSize", fmt.Sprintf("%d", pageSize))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[USDA] request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[USDA] search error (attempt %d) - status %d: %s", attempt, resp.StatusCode, string(body))
			}
			if resp.StatusCode == http.StatusNotFound {
				return nil, domain.ErrFoodNotFound
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUSDAAPIFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var searchResp domain.FoodSearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if c.debug {
			log.Printf("[USDA] found %d foods for query %q", len(searchResp.Foods), query)
		}
		return &searchResp, nil
	}

	return nil, lastErr
}

// GetFoodDetail retrieves the detail record for one food by FDC ID.
func (c *Client) GetFoodDetail(ctx context.Context, fdcID string) (*domain.FoodDetail, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/food/%s", c.baseURL, fdcID)
	params := url.Values{}
	params.Add("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrFoodNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrUSDAAPIFailure, resp.StatusCode, string(body))
	}

	var detail domain.FoodDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &detail, nil
}

// RankByDataType reorders search hits by data-type preference, keeping
// the incoming order within each type; unranked types trail.
func RankByDataType(foods []domain.FoodSummary) []domain.FoodSummary {
	ranked := make([]domain.FoodSummary, 0, len(foods))
	seen := make(map[int]bool, len(foods))
	for _, dt := range preferredDataTypes {
		for _, f := range foods {
			if f.DataType == dt && !seen[f.FdcID] {
				ranked = append(ranked, f)
				seen[f.FdcID] = true
			}
		}
	}
	for _, f := range foods {
		if !seen[f.FdcID] {
			ranked = append(ranked, f)
		}
	}
	return ranked
}
