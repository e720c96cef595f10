package telegram

import (
	"fmt"
	"strings"

	"golang-stock-analyst/internal/analyst/dto"
)

// FormatReportForTelegram formats a finished stock report into a compact
// Markdown message for Telegram.
func FormatReportForTelegram(report *dto.StockReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📄 *Stock Analysis: %s*\n", report.Company))
	sb.WriteString(fmt.Sprintf("🗓 *Date:* %s\n\n", report.ReportDate))

	sb.WriteString(fmt.Sprintf("💬 *Summary:* %s\n", report.ExecutiveSummary))
	sb.WriteString(fmt.Sprintf("💰 *Price:* %s\n", report.CurrentSharePrice))

	var sentimentIcon string
	switch {
	case strings.HasPrefix(strings.ToLower(report.OverallSentiment), "positive"):
		sentimentIcon = "😊"
	case strings.HasPrefix(strings.ToLower(report.OverallSentiment), "negative"):
		sentimentIcon = "😟"
	default:
		sentimentIcon = "😐"
	}
	sb.WriteString(fmt.Sprintf("%s *Sentiment:* %s\n", sentimentIcon, report.OverallSentiment))

	var actionIcon string
	switch strings.ToLower(report.Recommendation) {
	case "buy":
		actionIcon = "🟢"
	case "sell":
		actionIcon = "🔴"
	default: // Hold
		actionIcon = "🟡"
	}
	sb.WriteString(fmt.Sprintf("%s *Recommendation:* %s\n", actionIcon, strings.ToUpper(report.Recommendation)))

	return sb.String()
}
