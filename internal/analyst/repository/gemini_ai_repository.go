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
	"golang-stock-analyst/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// TokenCounter estimates the prompt size before a request is admitted by the
// token limiter.
type TokenCounter interface {
	CountTokens(ctx context.Context, model, prompt string) (int, error)
}

// genaiTokenCounter counts tokens through the official Gemini client.
type genaiTokenCounter struct {
	client *genai.Client
}

func (c *genaiTokenCounter) CountTokens(ctx context.Context, model, prompt string) (int, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	resp, err := c.client.Models.CountTokens(ctx, model, contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

// geminiAIRepository is an implementation of AIRepository that uses the Google Gemini API.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	tokenCounter   TokenCounter
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	return NewGeminiAIRepositoryWithCounter(cfg, log, &genaiTokenCounter{client: genAiClient})
}

// NewGeminiAIRepositoryWithCounter creates a geminiAIRepository with a custom
// token counter.
func NewGeminiAIRepositoryWithCounter(cfg *config.Config, log *logger.Logger, counter TokenCounter) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		tokenCounter:   counter,
	}, nil
}

// GenerateContent runs a single Gemini completion for the given prompt.
func (r *geminiAIRepository) GenerateContent(ctx context.Context, prompt string, stopSequences []string) (string, error) {
	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt, stopSequences)
	if err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateReport compiles consolidated research facts into a structured report.
func (r *geminiAIRepository) GenerateReport(ctx context.Context, company, facts string) (*dto.StockReport, error) {
	prompt := BuildReportPrompt(company, facts, time.Now())

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}

	return r.parseReportResponse(geminiResp)
}

func (r *geminiAIRepository) executeGeminiAIRequest(ctx context.Context, prompt string, stopSequences []string) (*dto.GeminiAPIResponse, error) {
	totalTokens, err := r.tokenCounter.CountTokens(ctx, r.cfg.Gemini.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", totalTokens),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, totalTokens); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	if totalTokens > r.cfg.Gemini.MaxTokenPerMinute/2 {
		r.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	temperature := 0.0
	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
		GenerationConfig: &dto.GenerationConfig{
			Temperature:   &temperature,
			StopSequences: stopSequences,
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		r.logger.Error("Failed to create new http request", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		r.logger.Error("Failed to decode response body", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &geminiResp, nil
}

func (r *geminiAIRepository) parseReportResponse(resp *dto.GeminiAPIResponse) (*dto.StockReport, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content found in Gemini response")
	}

	rawJSON := ExtractJSON(resp.Candidates[0].Content.Parts[0].Text)

	var result dto.StockReport
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		r.logger.Error("Failed to unmarshal report from Gemini response", logger.ErrorField(err), logger.StringField("response", rawJSON))
		return nil, fmt.Errorf("failed to unmarshal report from Gemini response: %w", err)
	}

	return &result, nil
}

// ExtractJSON strips Markdown code fences and surrounding prose from a model reply,
// returning the innermost JSON object text.
func ExtractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		return cleaned[start : end+1]
	}
	return cleaned
}
