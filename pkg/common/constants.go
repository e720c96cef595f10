package common

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultGeminiModel   = "gemini-2.5-flash"

	DefaultTavilyBaseURL = "https://api.tavily.com"

	ToolWebSearch     = "web_search"
	ToolAnalyzeFiling = "analyze_filing"
	ToolNewsHeadlines = "news_headlines"
)
