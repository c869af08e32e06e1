package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DummyJSONProvider fetches random quotes from the DummyJSON public API.
type DummyJSONProvider struct {
	config *Config
	client *http.Client
}

func NewDummyJSONProvider(config *Config) *DummyJSONProvider {
	return &DummyJSONProvider{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type dummyJSONQuote struct {
	ID     int    `json:"id"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

func (p *DummyJSONProvider) RandomQuote(ctx context.Context) (string, error) {
	url := strings.TrimRight(p.config.BaseURL, "/") + "/quotes/random"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", NewNetworkError("failed to create request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", NewProviderError(resp.StatusCode, string(body))
	}

	var data dummyJSONQuote
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", NewNetworkError("malformed response body", err)
	}

	if data.Quote == "" {
		return "", &QuoteError{Type: ErrTypeProvider, Message: "empty quote in response"}
	}

	return fmt.Sprintf("%s - %s", data.Quote, data.Author), nil
}
