package service

import (
	"context"
	"os"
	"testing"

	"golang-stock-analyst/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWatchlistRepository struct {
	companies []entity.Company
	err       error
}

func (f *fakeWatchlistRepository) Load(ctx context.Context) ([]entity.Company, error) {
	return f.companies, f.err
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) SendMessage(text string) error {
	r.messages = append(r.messages, text)
	return nil
}

func newTestAnalystService(t *testing.T, ai *fakeAIRepository, watchlist *fakeWatchlistRepository, notifier *recordingNotifier) *AnalystService {
	t.Helper()
	cfg := testConfig()
	log := testLogger(t)
	search := &fakeTool{name: "web_search", result: "NFLX trades at $1,200."}
	researcher := NewResearcherService(cfg, log, ai, []Tool{search})
	reporter := NewReporterService(cfg, log, ai)

	if notifier == nil {
		return NewAnalystService(cfg, log, researcher, reporter, watchlist, nil)
	}
	return NewAnalystService(cfg, log, researcher, reporter, watchlist, notifier)
}

// End-to-end smoke test with mocked search tool and mocked LLM: the rendered
// output must contain the three expected section headers.
func TestAnalyzeRendersMandatorySections(t *testing.T) {
	ai := &fakeAIRepository{
		completions: []string{
			"Thought: find the price.\nAction: web_search\nAction Input: Netflix NFLX price",
			"Final Answer: NFLX trades at $1,200, recent news is favorable.",
		},
		report: sampleReport(),
	}

	svc := newTestAnalystService(t, ai, &fakeWatchlistRepository{}, nil)
	report, markdown, err := svc.Analyze(context.Background(), entity.Company{Name: "Netflix", Ticker: "NFLX"})

	require.NoError(t, err)
	assert.Equal(t, "Netflix (NFLX)", report.Company)
	assert.Contains(t, markdown, "## Executive Summary")
	assert.Contains(t, markdown, "## Current Context")
	assert.Contains(t, markdown, "## Sentiment Analysis")
}

func TestAnalyzeReusesCachedResearch(t *testing.T) {
	ai := &fakeAIRepository{
		completions: []string{
			"Final Answer: NFLX facts gathered once.",
		},
		report: sampleReport(),
	}

	svc := newTestAnalystService(t, ai, &fakeWatchlistRepository{}, nil)
	company := entity.Company{Name: "Netflix", Ticker: "NFLX"}

	_, _, err := svc.Analyze(context.Background(), company)
	require.NoError(t, err)

	// No completions remain, so a second research pass would fail.
	_, _, err = svc.Analyze(context.Background(), company)
	require.NoError(t, err)
	assert.Len(t, ai.prompts, 1)
}

// A single-company run delivers the same way a watchlist entry does: a report
// file when an output directory is configured, plus the Telegram summary.
func TestAnalyzeAndDeliverWritesFileAndNotifies(t *testing.T) {
	ai := &fakeAIRepository{
		completions: []string{"Final Answer: facts."},
		report:      sampleReport(),
	}
	notifier := &recordingNotifier{}

	cfg := testConfig()
	cfg.Report.OutputDir = t.TempDir()
	log := testLogger(t)
	search := &fakeTool{name: "web_search", result: "some result"}
	researcher := NewResearcherService(cfg, log, ai, []Tool{search})
	reporter := NewReporterService(cfg, log, ai)
	svc := NewAnalystService(cfg, log, researcher, reporter, &fakeWatchlistRepository{}, notifier)

	outcome := svc.AnalyzeAndDeliver(context.Background(), entity.Company{Name: "Netflix", Ticker: "NFLX"})

	require.True(t, outcome.IsSuccess, outcome.Error)
	require.NotEmpty(t, outcome.ReportPath)

	content, err := os.ReadFile(outcome.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Executive Summary")

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Netflix (NFLX)")
}

func TestRunWatchlistContinuesAfterFailure(t *testing.T) {
	ai := &fakeAIRepository{
		completions: []string{
			// First company keeps calling a tool and hits the iteration cap.
			"Action: web_search\nAction Input: q1",
			// Second company answers immediately and succeeds.
			"Final Answer: TSLA facts.",
		},
		report: sampleReport(),
	}
	watchlist := &fakeWatchlistRepository{companies: []entity.Company{
		{Name: "Netflix", Ticker: "NFLX"},
		{Name: "Tesla", Ticker: "TSLA"},
	}}

	cfg := testConfig()
	cfg.Research.MaxIterations = 1
	log := testLogger(t)
	search := &fakeTool{name: "web_search", result: "some result"}
	researcher := NewResearcherService(cfg, log, ai, []Tool{search})
	reporter := NewReporterService(cfg, log, ai)
	svc := NewAnalystService(cfg, log, researcher, reporter, watchlist, nil)

	outcomes, err := svc.RunWatchlist(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.False(t, outcomes[0].IsSuccess)
	assert.Contains(t, outcomes[0].Error, "did not converge")
	assert.True(t, outcomes[1].IsSuccess)
}

func TestRunWatchlistSendsTelegramNotification(t *testing.T) {
	ai := &fakeAIRepository{
		completions: []string{"Final Answer: facts."},
		report:      sampleReport(),
	}
	notifier := &recordingNotifier{}
	watchlist := &fakeWatchlistRepository{companies: []entity.Company{{Name: "Netflix", Ticker: "NFLX"}}}

	svc := newTestAnalystService(t, ai, watchlist, notifier)
	outcomes, err := svc.RunWatchlist(context.Background())

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].IsSuccess)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Netflix (NFLX)")
}

func TestRunWatchlistLoadFailure(t *testing.T) {
	svc := newTestAnalystService(t, &fakeAIRepository{}, &fakeWatchlistRepository{err: assert.AnError}, nil)
	_, err := svc.RunWatchlist(context.Background())
	require.Error(t, err)
}
