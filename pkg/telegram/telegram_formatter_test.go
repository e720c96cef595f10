package telegram

import (
	"testing"

	"golang-stock-analyst/internal/analyst/dto"

	"github.com/stretchr/testify/assert"
)

func TestFormatReportForTelegram(t *testing.T) {
	report := &dto.StockReport{
		ReportDate:        "2026-08-30",
		Company:           "Netflix (NFLX)",
		CurrentSharePrice: "$1,200.50",
		ExecutiveSummary:  "Growth remains strong.",
		OverallSentiment:  "Positive - subscriber momentum.",
		Recommendation:    "Buy",
	}

	msg := FormatReportForTelegram(report)

	assert.Contains(t, msg, "*Stock Analysis: Netflix (NFLX)*")
	assert.Contains(t, msg, "2026-08-30")
	assert.Contains(t, msg, "😊 *Sentiment:*")
	assert.Contains(t, msg, "🟢 *Recommendation:* BUY")
}

func TestFormatReportForTelegramNeutralIcons(t *testing.T) {
	report := &dto.StockReport{
		Company:          "Tesla (TSLA)",
		OverallSentiment: "Mixed - margin pressure offsets demand.",
		Recommendation:   "Hold",
	}

	msg := FormatReportForTelegram(report)

	assert.Contains(t, msg, "😐 *Sentiment:*")
	assert.Contains(t, msg, "🟡 *Recommendation:* HOLD")
}
