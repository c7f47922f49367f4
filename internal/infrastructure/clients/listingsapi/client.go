// Package listingsapi is the HTTP client for the hosted directory store the
// dataset loader pulls listings from.
package listingsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/carefinderfl/geodirectory/pkg/config"
	"github.com/carefinderfl/geodirectory/pkg/retry"
)

const defaultHTTPTimeout = 15 * time.Second

// Client fetches listing pages from the hosted store.
type Client interface {
	ListListings(ctx context.Context, req ListRequest) (*ListResponse, error)
}

// ListRequest identifies one page of the listing collection.
type ListRequest struct {
	Limit  int
	Offset int
}

// ListResponse is one page of the listing collection.
type ListResponse struct {
	Data    []ListingRecord `json:"data"`
	Total   int             `json:"total"`
	HasMore bool            `json:"hasMore"`
}

// ListingRecord is the store's wire representation of a directory entry.
// Latitude and longitude are pointers because not every listing has been
// geocoded; the store guarantees they are either both present or both absent.
type ListingRecord struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	City         string              `json:"city"`
	County       string              `json:"county"`
	State        string              `json:"state"`
	Latitude     *float64            `json:"latitude"`
	Longitude    *float64            `json:"longitude"`
	Tags         map[string][]string `json:"tags"`
	RecordKind   string              `json:"recordKind"`
	LastModified time.Time           `json:"lastModified"`
}

// HTTPClient implements Client with client-side rate limiting and retry.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retryCfg   retry.Config
}

// NewHTTPClient creates a rate-limited listings API client.
func NewHTTPClient(cfg *config.ListingsAPIConfig) *HTTPClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 3
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		retryCfg:   retryCfg,
	}
}

// ListListings fetches one page of listings.
func (c *HTTPClient) ListListings(ctx context.Context, req ListRequest) (*ListResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	endpoint, err := url.Parse(c.baseURL + "/listings")
	if err != nil {
		return nil, fmt.Errorf("invalid listings API URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("limit", strconv.Itoa(req.Limit))
	query.Set("offset", strconv.Itoa(req.Offset))
	endpoint.RawQuery = query.Encode()

	var page ListResponse
	err = retry.Do(ctx, c.retryCfg, func() error {
		return c.fetchPage(ctx, endpoint.String(), &page)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) fetchPage(ctx context.Context, endpoint string, out *ListResponse) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("listings API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("listings API returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode listings page: %w", err)
	}
	return nil
}
