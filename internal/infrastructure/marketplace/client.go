// Package marketplace implements the candidate search contract against an
// AliExpress product-data API.
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/pricescope/backend/internal/domain"
	"golang.org/x/time/rate"
)

// searchResponse is the provider's search payload envelope
type searchResponse struct {
	Products []domain.CandidateProduct `json:"products"`
}

// Client handles communication with the AliExpress product-data API
// (RapidAPI). It implements domain.CandidateSearcher.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	apiHost     string
	baseURL     string
	shipTo      string
	currency    string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new AliExpress API client. shipTo is the ISO country
// the provider quotes shipping for; currency is the quote currency for sale
// prices.
func NewClient(apiKey, apiHost, shipTo, currency string) *Client {
	// RapidAPI basic tier allows 1000 requests per hour,
	// 1000/3600 ≈ 0.278 requests/sec
	limiter := rate.NewLimiter(rate.Limit(0.278), 10) // burst of 10 requests

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		apiHost:     apiHost,
		baseURL:     "https://" + apiHost,
		shipTo:      shipTo,
		currency:    currency,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request/response logging.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// Marketplace returns the display name of this backend's marketplace.
func (c *Client) Marketplace() string {
	return "AliExpress"
}

// exponentialBackoff returns the wait before the given retry attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(250<<attempt) * time.Millisecond
}

// doRequest executes an HTTP GET request with the RapidAPI headers.
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMarketplaceAPIFailure, err)
	}

	return resp, nil
}

// SearchProducts queries the marketplace for listings matching the search
// term. An empty slice with a nil error means the marketplace legitimately
// returned no results.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.CandidateProduct, error) {
	if c.debug {
		log.Printf("[ALIEXPRESS] SearchProducts called with query: %q", query)
	}

	endpoint := fmt.Sprintf("%s/search", c.baseURL)
	params := url.Values{}
	params.Add("searchTerm", query)
	params.Add("shipToCountry", c.shipTo)
	params.Add("currency", c.currency)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[ALIEXPRESS] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[ALIEXPRESS] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			if resp.StatusCode == http.StatusNotFound {
				return nil, nil
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				lastErr = domain.ErrRateLimited
			} else {
				lastErr = fmt.Errorf("%w: status %d", domain.ErrMarketplaceAPIFailure, resp.StatusCode)
			}
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var searchResp searchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		products := sanitizeProducts(searchResp.Products)
		if c.debug {
			log.Printf("[ALIEXPRESS] Found %d products for query: %q", len(products), query)
		}
		return products, nil
	}

	log.Printf("[ALIEXPRESS] All retries failed for query: %q", query)
	return nil, lastErr
}
