package repository

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-analyst/pkg/common"
)

// BuildReActPrompt assembles the researcher prompt for one reasoning step.
// toolLines describes each tool as "name: description", toolNames is the
// comma-separated list of valid Action values, and scratchpad carries the
// Thought/Action/Observation history accumulated so far.
func BuildReActPrompt(toolLines []string, toolNames []string, question, scratchpad string) string {
	return fmt.Sprintf(`You are a helpful agent, proficient in financial analysis, focused on fact finding.
Your only task is to use the available tools to collect the requested information.
Answer the question as best you can. You have access to the following tools:

%s

Use the following reasoning format, keeping the order:

Question: the question you need to answer
Thought: you should always think about what to do, which tool to use and which information to look for
Action: the action to take, always one of [%s]
Action Input: the input for the action (without quotes)
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I know the final and detailed answer
Final Answer: the final and detailed answer to the original question (including facts from the web and from the document)

Begin!

Question: %s
Thought: %s`,
		strings.Join(toolLines, "\n"),
		strings.Join(toolNames, ", "),
		question,
		scratchpad,
	)
}

// BuildResearchQuestion builds the fact-finding question handed to the researcher.
func BuildResearchQuestion(company, reportURL string) string {
	if reportURL == "" {
		reportURL = "N/A"
	}
	return fmt.Sprintf(`For the company %s, produce a consolidated analysis.
1. Use the '%s' tool to find the CURRENT share price and the three most recent news items.
2. Use the '%s' tool with the input '%s' to extract the financial summary from official documents.
3. Consolidate ALL the information (share price, web news and document facts) into the final answer.`,
		company, common.ToolWebSearch, common.ToolAnalyzeFiling, reportURL)
}

// BuildReportPrompt builds the reporter prompt that compiles research facts
// into the structured JSON report.
func BuildReportPrompt(company, facts string, now time.Time) string {
	return fmt.Sprintf(`You are a Senior Investment Analyst. Your task is to compile the RESEARCH FACTS
provided about the company %s into a professional report.

Follow the formatting instructions strictly and fill in every field of the JSON object.
Use today's date (%s) for the 'report_date' field.
If no fundamental data is available, fill the 'financial_summary' field with 'N/A - News Focus'.
The 'overall_sentiment' field must state Positive, Negative or Mixed plus a brief fact-based justification.
The 'recommendation' field must be a simple investment call (e.g. Hold, Buy, Sell).
Do not add extra text, only the JSON object.

{
  "report_date": "%s",
  "company": "%s",
  "current_share_price": "<current trading price of the share>",
  "executive_summary": "<concise summary of the main investment conclusions, at most 4 sentences>",
  "relevant_news": ["<top market news item and its impact, one sentence>", "...", "..."],
  "financial_summary": "<summary of key financial data (revenue, profit, FCF) from the official document, or 'N/A - News Focus'>",
  "overall_sentiment": "<Positive/Negative/Mixed plus brief justification>",
  "recommendation": "<Hold | Buy | Sell>"
}

RESEARCH FACTS (contains data from the web and from the document):
%s`,
		company,
		now.Format("2006-01-02"),
		now.Format("2006-01-02"),
		company,
		facts,
	)
}

// BuildFilingSummaryPrompt asks the model to condense extracted filing text
// into the key financial figures the researcher needs.
func BuildFilingSummaryPrompt(reportURL, text string) string {
	return fmt.Sprintf(`Read the following extract of an official financial report (%s) and summarize
the key financial figures: revenue, net income and free cash flow, plus any
notable trend the report highlights. Keep the summary under 5 sentences and
stick to figures actually present in the text.

%s`, reportURL, text)
}
