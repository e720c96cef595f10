package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-analyst/internal/analyst/config"
	"golang-stock-analyst/pkg/logger"
	"golang-stock-analyst/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
)

// filingRepository fetches official financial reports and extracts their readable text.
type filingRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewFilingRepository creates a new instance of filingRepository.
func NewFilingRepository(cfg *config.Config, log *logger.Logger) FilingRepository {
	return &filingRepository{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		cfg:    cfg,
		logger: log,
	}
}

// ExtractText downloads the report URL and returns the readable article text,
// truncated to the configured maximum so it fits inside a prompt.
func (r *filingRepository) ExtractText(ctx context.Context, reportURL string) (string, error) {
	parsed, err := url.Parse(reportURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid report URL: %q", reportURL)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reportURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for report: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to fetch report content", logger.ErrorField(err), logger.StringField("url", reportURL))
		return "", fmt.Errorf("failed to fetch report content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Failed to fetch report content with non-200 status", logger.IntField("status", resp.StatusCode), logger.StringField("url", reportURL))
		return "", fmt.Errorf("failed to fetch report content, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		r.logger.Error("Failed to parse report content", logger.ErrorField(err), logger.StringField("url", reportURL))
		return "", fmt.Errorf("failed to parse report content: %w", err)
	}
	content := doc.Content()

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(content)))
	if err != nil {
		r.logger.Error("Failed to parse report content", logger.ErrorField(err), logger.StringField("url", reportURL))
		return "", fmt.Errorf("failed to parse report content: %w", err)
	}

	text := strings.Join(strings.Fields(docHTML.Text()), " ")
	text = utils.SafeText(text)
	if text == "" {
		return "", fmt.Errorf("no readable text found in report: %s", reportURL)
	}

	return utils.TruncateText(text, r.cfg.Research.FilingMaxChars), nil
}
