package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildReActPrompt(t *testing.T) {
	prompt := BuildReActPrompt(
		[]string{"web_search: searches the web", "analyze_filing: reads a report"},
		[]string{"web_search", "analyze_filing"},
		"What is the current NFLX price?",
		"Thought so far",
	)

	assert.Contains(t, prompt, "web_search: searches the web")
	assert.Contains(t, prompt, "always one of [web_search, analyze_filing]")
	assert.Contains(t, prompt, "Question: What is the current NFLX price?")
	assert.Contains(t, prompt, "Final Answer:")
	assert.Contains(t, prompt, "Thought: Thought so far")
}

func TestBuildResearchQuestion(t *testing.T) {
	question := BuildResearchQuestion("Netflix (NFLX)", "https://example.com/10k")

	assert.Contains(t, question, "Netflix (NFLX)")
	assert.Contains(t, question, "'web_search'")
	assert.Contains(t, question, "'analyze_filing' tool with the input 'https://example.com/10k'")

	noURL := BuildResearchQuestion("Tesla (TSLA)", "")
	assert.Contains(t, noURL, "the input 'N/A'")
}

func TestBuildReportPrompt(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	prompt := BuildReportPrompt("Netflix (NFLX)", "the collected facts", now)

	assert.Contains(t, prompt, "Netflix (NFLX)")
	assert.Contains(t, prompt, "2026-08-30")
	assert.Contains(t, prompt, `"report_date"`)
	assert.Contains(t, prompt, `"overall_sentiment"`)
	assert.Contains(t, prompt, "the collected facts")
	assert.Contains(t, prompt, "N/A - News Focus")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "fenced json",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "plain json",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "json with surrounding prose",
			raw:  "Here is the report:\n{\"a\": 1}\nHope this helps.",
			want: `{"a": 1}`,
		},
		{
			name: "no json at all",
			raw:  "nothing here",
			want: "nothing here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.raw))
		})
	}
}
