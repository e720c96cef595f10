package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-stock-analyst/internal/analyst/config"
	"golang-stock-analyst/internal/analyst/dto"
	"golang-stock-analyst/pkg/logger"
)

// tavilyRepository is an implementation of SearchRepository that uses the Tavily API.
type tavilyRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewTavilyRepository creates a new instance of tavilyRepository.
func NewTavilyRepository(cfg *config.Config, log *logger.Logger) (SearchRepository, error) {
	if strings.TrimSpace(cfg.Tavily.APIKey) == "" {
		return nil, fmt.Errorf("tavily API key is missing")
	}
	return &tavilyRepository{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:    cfg,
		logger: log,
	}, nil
}

const maxBackoffDelay = 30 * time.Second

func nextBackoffDelay(delay time.Duration) time.Duration {
	delay *= 2
	if delay > maxBackoffDelay {
		delay = maxBackoffDelay
	}
	return delay
}

// Search posts a query to the Tavily search API.
func (r *tavilyRepository) Search(ctx context.Context, query string) ([]dto.TavilySearchResult, error) {
	payload := dto.TavilySearchRequest{
		APIKey:      r.cfg.Tavily.APIKey,
		Query:       query,
		SearchDepth: r.cfg.Tavily.SearchDepth,
		MaxResults:  r.cfg.Tavily.MaxResults,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := r.cfg.Tavily.BaseURL + "/search"

	var resp *http.Response
	delay := 1 * time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonPayload))
		if err != nil {
			return nil, fmt.Errorf("failed to create new http request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = r.client.Do(req)
		if err != nil {
			r.logger.Error("Failed to send request to Tavily API", logger.ErrorField(err), logger.StringField("query", query))
			return nil, fmt.Errorf("failed to send request to Tavily API: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		// Back off and retry on 429, doubling the delay each time up to 30s.
		r.logger.Warn("Tavily rate limited, backing off", logger.StringField("delay", delay.String()))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = nextBackoffDelay(delay)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Tavily API", logger.IntField("status_code", resp.StatusCode), logger.StringField("query", query))
		return nil, fmt.Errorf("received non-OK response from Tavily API: %d - %s", resp.StatusCode, string(body))
	}

	var searchResp dto.TavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	results := searchResp.Results
	if max := r.cfg.Tavily.MaxResults; len(results) > max {
		results = results[:max]
	}

	return results, nil
}
