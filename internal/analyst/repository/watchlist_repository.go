package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"golang-stock-analyst/internal/analyst/config"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
)

// watchlistRepository loads the company watchlist from a CSV file.
// Expected columns: company,ticker,report_url (header row required).
type watchlistRepository struct {
	cfg    *config.Config
	logger *logger.Logger
}

// NewWatchlistRepository creates a new instance of watchlistRepository.
func NewWatchlistRepository(cfg *config.Config, log *logger.Logger) WatchlistRepository {
	return &watchlistRepository{
		cfg:    cfg,
		logger: log,
	}
}

// Load reads the watchlist file. When the file does not exist, a sample
// watchlist is written in its place and returned.
func (r *watchlistRepository) Load(ctx context.Context) ([]entity.Company, error) {
	path := r.cfg.Watchlist.Path

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		r.logger.Warn("Watchlist file not found, creating a sample", logger.StringField("path", path))
		return r.writeSample(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open watchlist file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse watchlist file: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("watchlist file %s has no entries", path)
	}

	col := indexColumns(records[0])
	companies := make([]entity.Company, 0, len(records)-1)
	for _, row := range records[1:] {
		company := entity.Company{
			Name:      field(row, colIndex(col, "company")),
			Ticker:    strings.ToUpper(field(row, colIndex(col, "ticker"))),
			ReportURL: field(row, colIndex(col, "report_url")),
		}
		if company.Name == "" && company.Ticker == "" {
			continue
		}
		companies = append(companies, company)
	}

	r.logger.Info("Watchlist loaded", logger.IntField("companies", len(companies)), logger.StringField("path", path))
	return companies, nil
}

func (r *watchlistRepository) writeSample(path string) ([]entity.Company, error) {
	sample := []entity.Company{
		{Name: "Netflix", Ticker: "NFLX"},
		{Name: "Tesla", Ticker: "TSLA"},
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create sample watchlist: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"company", "ticker", "report_url"}); err != nil {
		return nil, fmt.Errorf("failed to write sample watchlist: %w", err)
	}
	for _, c := range sample {
		if err := writer.Write([]string{c.Name, c.Ticker, c.ReportURL}); err != nil {
			return nil, fmt.Errorf("failed to write sample watchlist: %w", err)
		}
	}

	return sample, nil
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return col
}

func colIndex(col map[string]int, name string) int {
	if i, ok := col[name]; ok {
		return i
	}
	return -1
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
