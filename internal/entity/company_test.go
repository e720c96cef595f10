package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyDisplayName(t *testing.T) {
	assert.Equal(t, "Netflix (NFLX)", Company{Name: "Netflix", Ticker: "NFLX"}.DisplayName())
	assert.Equal(t, "Some Fund", Company{Name: "Some Fund"}.DisplayName())
}

func TestCompanyHasReportURL(t *testing.T) {
	assert.True(t, Company{ReportURL: "https://example.com/10k"}.HasReportURL())

	for _, url := range []string{"", "N/A", "n/a", "-"} {
		assert.False(t, Company{ReportURL: url}.HasReportURL(), "url %q", url)
	}
}
