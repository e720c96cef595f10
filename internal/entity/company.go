package entity

import "fmt"

// Company represents a single watchlist entry to analyze.
type Company struct {
	Name      string `json:"name"`
	Ticker    string `json:"ticker"`
	ReportURL string `json:"report_url"`
}

// DisplayName returns the "Name (TICKER)" form used in prompts and report titles.
func (c Company) DisplayName() string {
	if c.Ticker == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Ticker)
}

// HasReportURL reports whether the entry carries a usable filing URL.
func (c Company) HasReportURL() bool {
	switch c.ReportURL {
	case "", "N/A", "n/a", "-":
		return false
	}
	return true
}
