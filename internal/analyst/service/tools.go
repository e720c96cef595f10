package service

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-analyst/internal/analyst/repository"
	"golang-stock-analyst/pkg/common"
	"golang-stock-analyst/pkg/logger"
)

// Tool is a single action the researcher can take during the reasoning loop.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
}

// webSearchTool exposes the Tavily search repository to the researcher.
type webSearchTool struct {
	searchRepo repository.SearchRepository
	logger     *logger.Logger
}

// NewWebSearchTool creates the web search tool.
func NewWebSearchTool(searchRepo repository.SearchRepository, log *logger.Logger) Tool {
	return &webSearchTool{searchRepo: searchRepo, logger: log}
}

func (t *webSearchTool) Name() string {
	return common.ToolWebSearch
}

func (t *webSearchTool) Description() string {
	return "Searches the web for current information. Input: a search query. Returns titles, URLs and content snippets of the top results."
}

func (t *webSearchTool) Call(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", fmt.Errorf("search query is empty")
	}

	results, err := t.searchRepo.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No results found.", nil
	}

	var sb strings.Builder
	for i, res := range results {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n%s\n\n", i+1, res.Title, res.URL, res.Content))
	}
	return strings.TrimSpace(sb.String()), nil
}

// filingTool fetches an official financial report and summarizes its key figures.
type filingTool struct {
	filingRepo repository.FilingRepository
	aiRepo     repository.AIRepository
	logger     *logger.Logger
}

// NewFilingTool creates the filing analysis tool.
func NewFilingTool(filingRepo repository.FilingRepository, aiRepo repository.AIRepository, log *logger.Logger) Tool {
	return &filingTool{filingRepo: filingRepo, aiRepo: aiRepo, logger: log}
}

func (t *filingTool) Name() string {
	return common.ToolAnalyzeFiling
}

func (t *filingTool) Description() string {
	return "Reads an official financial report (input: its URL) and summarizes the key figures: revenue, net income and free cash flow."
}

func (t *filingTool) Call(ctx context.Context, input string) (string, error) {
	reportURL := strings.TrimSpace(input)
	if reportURL == "" || strings.Contains(reportURL, "N/A") || !strings.HasPrefix(reportURL, "http") {
		// Not an error: the researcher should carry on with news-only facts.
		return "No valid financial report URL was provided. Fundamental data unavailable.", nil
	}

	t.logger.Info("Analyzing financial report", logger.StringField("url", reportURL))

	text, err := t.filingRepo.ExtractText(ctx, reportURL)
	if err != nil {
		return "", err
	}

	summary, err := t.aiRepo.GenerateContent(ctx, repository.BuildFilingSummaryPrompt(reportURL, text), nil)
	if err != nil {
		return "", fmt.Errorf("failed to summarize report: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

// newsHeadlinesTool returns recent RSS headlines for a ticker.
type newsHeadlinesTool struct {
	newsFeedRepo repository.NewsFeedRepository
	logger       *logger.Logger
}

// NewNewsHeadlinesTool creates the news headlines tool.
func NewNewsHeadlinesTool(newsFeedRepo repository.NewsFeedRepository, log *logger.Logger) Tool {
	return &newsHeadlinesTool{newsFeedRepo: newsFeedRepo, logger: log}
}

func (t *newsHeadlinesTool) Name() string {
	return common.ToolNewsHeadlines
}

func (t *newsHeadlinesTool) Description() string {
	return "Lists the most recent news headlines for a stock. Input: the ticker symbol."
}

func (t *newsHeadlinesTool) Call(ctx context.Context, input string) (string, error) {
	headlines, err := t.newsFeedRepo.Headlines(ctx, input)
	if err != nil {
		return "", err
	}
	if len(headlines) == 0 {
		return "No recent headlines found.", nil
	}
	return "- " + strings.Join(headlines, "\n- "), nil
}
