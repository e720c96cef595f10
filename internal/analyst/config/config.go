package config

import (
	"time"

	"golang-stock-analyst/pkg/common"
	"golang-stock-analyst/pkg/config"
)

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Tavily holds the configuration for the Tavily search API.
type Tavily struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	SearchDepth string `mapstructure:"search_depth"`
	MaxResults  int    `mapstructure:"max_results"`
}

// Research holds researcher-stage configuration.
type Research struct {
	MaxIterations  int           `mapstructure:"max_iterations"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	FilingMaxChars int           `mapstructure:"filing_max_chars"`
	NewsFeedURL    string        `mapstructure:"news_feed_url"`
	MaxHeadlines   int           `mapstructure:"max_headlines"`
}

// Report holds reporter-stage configuration.
type Report struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Schedule holds configuration for the scheduled watchlist run.
type Schedule struct {
	Cron string `mapstructure:"cron"`
}

// Watchlist holds configuration for the company watchlist file.
type Watchlist struct {
	Path string `mapstructure:"path"`
}

// Config holds the full configuration for the analyst service.
type Config struct {
	App       config.App    `mapstructure:"app"`
	Logger    config.Logger `mapstructure:"logger"`
	Gemini    Gemini        `mapstructure:"gemini"`
	Tavily    Tavily        `mapstructure:"tavily"`
	Research  Research      `mapstructure:"research"`
	Report    Report        `mapstructure:"report"`
	Telegram  Telegram      `mapstructure:"telegram"`
	Schedule  Schedule      `mapstructure:"schedule"`
	Watchlist Watchlist     `mapstructure:"watchlist"`
}

// Load loads the analyst configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = common.DefaultGeminiBaseURL
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = common.DefaultGeminiModel
	}
	if c.Gemini.MaxRequestPerMinute <= 0 {
		c.Gemini.MaxRequestPerMinute = 8
	}
	if c.Gemini.MaxTokenPerMinute <= 0 {
		c.Gemini.MaxTokenPerMinute = 200000
	}
	if c.Tavily.BaseURL == "" {
		c.Tavily.BaseURL = common.DefaultTavilyBaseURL
	}
	if c.Tavily.SearchDepth == "" {
		c.Tavily.SearchDepth = "basic"
	}
	if c.Tavily.MaxResults <= 0 {
		c.Tavily.MaxResults = 3
	}
	if c.Research.MaxIterations <= 0 {
		c.Research.MaxIterations = 10
	}
	if c.Research.CacheTTL <= 0 {
		c.Research.CacheTTL = 4 * time.Hour
	}
	if c.Research.FilingMaxChars <= 0 {
		c.Research.FilingMaxChars = 12000
	}
	if c.Research.NewsFeedURL == "" {
		c.Research.NewsFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"
	}
	if c.Research.MaxHeadlines <= 0 {
		c.Research.MaxHeadlines = 5
	}
	if c.Watchlist.Path == "" {
		c.Watchlist.Path = "watchlist.csv"
	}
}
