package dto

import "time"

// StockReport is the structured report compiled by the reporter stage.
// The Gemini reporter prompt asks for exactly this JSON shape.
type StockReport struct {
	ReportDate        string   `json:"report_date"`
	Company           string   `json:"company"`
	CurrentSharePrice string   `json:"current_share_price"`
	ExecutiveSummary  string   `json:"executive_summary"`
	RelevantNews      []string `json:"relevant_news"`
	FinancialSummary  string   `json:"financial_summary"`
	OverallSentiment  string   `json:"overall_sentiment"`
	Recommendation    string   `json:"recommendation"`
}

// ResearchResult is the consolidated output of the researcher stage.
type ResearchResult struct {
	Company     string    `json:"company"`
	Facts       string    `json:"facts"`
	Iterations  int       `json:"iterations"`
	ToolCalls   int       `json:"tool_calls"`
	CompletedAt time.Time `json:"completed_at"`
}

// AnalysisOutcome records the fate of one watchlist entry in a batch run.
type AnalysisOutcome struct {
	Company    string `json:"company"`
	IsSuccess  bool   `json:"is_success"`
	Error      string `json:"error,omitempty"`
	ReportPath string `json:"report_path,omitempty"`
}
