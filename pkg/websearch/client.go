package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrSearchUnavailable signals that the search backend could not be reached
// or returned an unusable reply. Callers are expected to degrade gracefully.
var ErrSearchUnavailable = errors.New("web search unavailable")

// Searcher is the contract consumed by the agent core.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Client performs web searches against a Tavily-compatible HTTP API.
type Client struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	HTTPClient *http.Client
}

var _ Searcher = &Client{}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		MaxResults: 5,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	Answer     bool   `json:"include_answer"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns a plain-text digest of the top results for query.
// Transport failures and non-2xx replies are wrapped in ErrSearchUnavailable.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("%w: no API key configured", ErrSearchUnavailable)
	}

	payload, err := json.Marshal(searchRequest{
		APIKey:     c.APIKey,
		Query:      query,
		MaxResults: c.MaxResults,
		Answer:     true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/search", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrSearchUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrSearchUnavailable, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.Unmarshal(bodyBytes, &sr); err != nil {
		return "", fmt.Errorf("%w: unmarshal: %v", ErrSearchUnavailable, err)
	}

	return formatResults(&sr), nil
}

func formatResults(sr *searchResponse) string {
	var b strings.Builder

	if sr.Answer != "" {
		b.WriteString(sr.Answer)
		b.WriteString("\n\n")
	}

	for i, r := range sr.Results {
		b.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, r.Title, r.URL))
		if r.Content != "" {
			b.WriteString(r.Content)
			b.WriteString("\n")
		}
	}

	return strings.TrimSpace(b.String())
}
