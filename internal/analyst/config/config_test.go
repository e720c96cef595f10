package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  name: "stock-analyst"
logger:
  level: "debug"
  encoding: "console"
gemini:
  model: "gemini-2.5-flash"
tavily:
  max_results: 5
research:
  max_iterations: 3
  cache_ttl: 1h
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "stock-analyst", cfg.App.Name)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 3, cfg.Research.MaxIterations)
	assert.Equal(t, time.Hour, cfg.Research.CacheTTL)
	assert.Equal(t, 5, cfg.Tavily.MaxResults)

	// Defaults for everything the file leaves out.
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models", cfg.Gemini.BaseURL)
	assert.Equal(t, "basic", cfg.Tavily.SearchDepth)
	assert.Equal(t, "watchlist.csv", cfg.Watchlist.Path)
	assert.Greater(t, cfg.Gemini.MaxRequestPerMinute, 0)
	assert.Greater(t, cfg.Research.FilingMaxChars, 0)
}

func TestLoadBindsProviderEnvVars(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key-from-env")
	t.Setenv("TAVILY_API_KEY", "tavily-key-from-env")

	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "google-key-from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "tavily-key-from-env", cfg.Tavily.APIKey)
}
