package repository

import (
	"context"

	"golang-stock-analyst/internal/analyst/dto"
	"golang-stock-analyst/internal/entity"
)

// AIRepository abstracts the Gemini reasoning calls used by both stages.
type AIRepository interface {
	// GenerateContent runs a single completion, stopping at any of the given sequences.
	GenerateContent(ctx context.Context, prompt string, stopSequences []string) (string, error)
	// GenerateReport compiles consolidated research facts into a structured report.
	GenerateReport(ctx context.Context, company, facts string) (*dto.StockReport, error)
}

// SearchRepository abstracts the web search provider.
type SearchRepository interface {
	Search(ctx context.Context, query string) ([]dto.TavilySearchResult, error)
}

// FilingRepository fetches a financial report URL and extracts its readable text.
type FilingRepository interface {
	ExtractText(ctx context.Context, reportURL string) (string, error)
}

// NewsFeedRepository returns recent headlines for a ticker from an RSS feed.
type NewsFeedRepository interface {
	Headlines(ctx context.Context, ticker string) ([]string, error)
}

// WatchlistRepository loads the companies to analyze.
type WatchlistRepository interface {
	Load(ctx context.Context) ([]entity.Company, error)
}
