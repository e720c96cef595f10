package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang-stock-analyst/internal/analyst/config"
	"golang-stock-analyst/internal/analyst/dto"
	"golang-stock-analyst/internal/analyst/repository"
	"golang-stock-analyst/pkg/logger"
	"golang-stock-analyst/pkg/utils"
)

// ReporterService runs the report stage: it compiles researched facts into a
// structured report and renders it as Markdown.
type ReporterService struct {
	cfg    *config.Config
	logger *logger.Logger
	aiRepo repository.AIRepository
}

// NewReporterService creates a new ReporterService.
func NewReporterService(cfg *config.Config, log *logger.Logger, aiRepo repository.AIRepository) *ReporterService {
	return &ReporterService{
		cfg:    cfg,
		logger: log,
		aiRepo: aiRepo,
	}
}

// GenerateReport compiles the research facts into a structured report.
func (s *ReporterService) GenerateReport(ctx context.Context, research *dto.ResearchResult) (*dto.StockReport, error) {
	report, err := s.aiRepo.GenerateReport(ctx, research.Company, research.Facts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report for %s: %w", research.Company, err)
	}

	if report.Company == "" {
		report.Company = research.Company
	}
	if report.FinancialSummary == "" {
		report.FinancialSummary = "N/A - News Focus"
	}

	return report, nil
}

// RenderMarkdown renders the structured report as a Markdown document with the
// Executive Summary, Current Context and Sentiment Analysis sections.
func (s *ReporterService) RenderMarkdown(report *dto.StockReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Stock Analysis Report: %s\n", report.Company))
	sb.WriteString(fmt.Sprintf("**Report Date:** %s\n\n---\n\n", report.ReportDate))

	sb.WriteString("## Executive Summary\n")
	sb.WriteString(report.ExecutiveSummary + "\n\n")
	sb.WriteString("| Indicator | Detail |\n")
	sb.WriteString("| :--- | :--- |\n")
	sb.WriteString(fmt.Sprintf("| **Current Share Price** | **%s** |\n", report.CurrentSharePrice))
	sb.WriteString(fmt.Sprintf("| **Recommendation** | **%s** |\n\n---\n\n", strings.ToUpper(report.Recommendation)))

	sb.WriteString("## Current Context\n")
	sb.WriteString("### Latest News Highlights\n")
	if len(report.RelevantNews) == 0 {
		sb.WriteString("* No relevant news found.\n")
	}
	for _, news := range report.RelevantNews {
		sb.WriteString("* " + news + "\n")
	}
	sb.WriteString("\n### Fundamental Snapshot\n")
	sb.WriteString(report.FinancialSummary + "\n\n---\n\n")

	sb.WriteString("## Sentiment Analysis\n")
	sb.WriteString(report.OverallSentiment + "\n")

	return sb.String()
}

// WriteReport writes the rendered report to the output directory and returns its path.
func (s *ReporterService) WriteReport(report *dto.StockReport, markdown string) (string, error) {
	dir := s.cfg.Report.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	fileName := fmt.Sprintf("Report_%s.md", utils.SanitizeFileName(report.Company))
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	s.logger.Info("Report written", logger.StringField("path", path))
	return path, nil
}
