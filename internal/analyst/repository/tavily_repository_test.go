package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-stock-analyst/internal/analyst/config"
	"golang-stock-analyst/internal/analyst/dto"
	"golang-stock-analyst/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func tavilyConfig(baseURL string) *config.Config {
	return &config.Config{
		Tavily: config.Tavily{
			APIKey:      "test-key",
			BaseURL:     baseURL,
			SearchDepth: "basic",
			MaxResults:  2,
		},
	}
}

func TestTavilySearch(t *testing.T) {
	var gotReq dto.TavilySearchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(dto.TavilySearchResponse{
			Results: []dto.TavilySearchResult{
				{Title: "a", URL: "https://a", Content: "alpha"},
				{Title: "b", URL: "https://b", Content: "beta"},
				{Title: "c", URL: "https://c", Content: "gamma"},
			},
		})
	}))
	defer server.Close()

	repo, err := NewTavilyRepository(tavilyConfig(server.URL), testLogger(t))
	require.NoError(t, err)

	results, err := repo.Search(context.Background(), "netflix share price")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotReq.APIKey)
	assert.Equal(t, "netflix share price", gotReq.Query)
	assert.Equal(t, "basic", gotReq.SearchDepth)
	assert.Equal(t, 2, gotReq.MaxResults)

	// Server returned 3 hits, config caps at 2.
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Title)
}

func TestTavilySearchRetriesOnRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(dto.TavilySearchResponse{
			Results: []dto.TavilySearchResult{{Title: "ok", URL: "https://ok", Content: "fine"}},
		})
	}))
	defer server.Close()

	repo, err := NewTavilyRepository(tavilyConfig(server.URL), testLogger(t))
	require.NoError(t, err)

	results, err := repo.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.Len(t, results, 1)
}

func TestTavilySearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	repo, err := NewTavilyRepository(tavilyConfig(server.URL), testLogger(t))
	require.NoError(t, err)

	_, err = repo.Search(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNextBackoffDelayCapsAtMax(t *testing.T) {
	delay := time.Second
	var seen []time.Duration
	for i := 0; i < 7; i++ {
		delay = nextBackoffDelay(delay)
		seen = append(seen, delay)
	}

	expected := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	assert.Equal(t, expected, seen)
}

func TestNewTavilyRepositoryRequiresAPIKey(t *testing.T) {
	cfg := tavilyConfig("https://api.tavily.com")
	cfg.Tavily.APIKey = "  "
	_, err := NewTavilyRepository(cfg, testLogger(t))
	require.Error(t, err)
}
