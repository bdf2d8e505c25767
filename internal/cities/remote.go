package cities

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avoronov/skyfare/pkg/logger"
)

// HTTPLookup queries a city suggestion endpoint for airport codes. The
// endpoint takes the normalized name as a query parameter and answers with
// ranked candidates; only the top one is used.
type HTTPLookup struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// NewHTTPLookup creates a remote lookup client.
func NewHTTPLookup(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPLookup {
	return &HTTPLookup{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  log.Named("city-lookup"),
	}
}

type lookupResponse struct {
	Results []struct {
		Name        string `json:"name"`
		Country     string `json:"country"`
		AirportCode string `json:"airport_code"`
	} `json:"results"`
}

// Lookup implements RemoteLookup. A response with no usable candidate
// returns (nil, nil).
func (c *HTTPLookup) Lookup(ctx context.Context, name string) (*Match, error) {
	reqURL := fmt.Sprintf("%s?q=%s&limit=5", c.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Remote city lookup", logger.String("city", name))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	for _, r := range parsed.Results {
		if r.AirportCode == "" {
			continue
		}
		c.logger.Debug("Remote city lookup hit",
			logger.String("city", name),
			logger.String("matched", r.Name),
			logger.String("code", r.AirportCode),
		)
		return &Match{City: r.Name, Country: r.Country, AirportCode: r.AirportCode}, nil
	}

	return nil, nil
}
