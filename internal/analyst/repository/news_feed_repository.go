package repository

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-analyst/internal/analyst/config"
	"golang-stock-analyst/pkg/logger"

	"github.com/mmcdole/gofeed"
)

// newsFeedRepository reads recent headlines for a ticker from an RSS feed.
type newsFeedRepository struct {
	cfg    *config.Config
	logger *logger.Logger
	parser *gofeed.Parser
}

// NewNewsFeedRepository creates a new instance of newsFeedRepository.
func NewNewsFeedRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	return &newsFeedRepository{
		cfg:    cfg,
		logger: log,
		parser: gofeed.NewParser(),
	}
}

// Headlines fetches the feed for the given ticker and returns the newest item titles.
func (r *newsFeedRepository) Headlines(ctx context.Context, ticker string) ([]string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is empty")
	}

	feedURL := fmt.Sprintf(r.cfg.Research.NewsFeedURL, ticker)
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.logger.Error("Failed to parse news feed", logger.ErrorField(err), logger.StringField("url", feedURL))
		return nil, fmt.Errorf("failed to parse news feed: %w", err)
	}

	headlines := make([]string, 0, r.cfg.Research.MaxHeadlines)
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		if item.PublishedParsed != nil {
			title = fmt.Sprintf("%s (%s)", title, item.PublishedParsed.Format("2006-01-02"))
		}
		headlines = append(headlines, title)
		if len(headlines) >= r.cfg.Research.MaxHeadlines {
			break
		}
	}

	return headlines, nil
}
