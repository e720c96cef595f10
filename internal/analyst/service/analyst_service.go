package service

import (
	"context"
	"fmt"
	"os"

	"golang-stock-analyst/internal/analyst/config"
	"golang-stock-analyst/internal/analyst/dto"
	"golang-stock-analyst/internal/analyst/repository"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
	"golang-stock-analyst/pkg/telegram"

	"github.com/patrickmn/go-cache"
)

// AnalystService chains the researcher and reporter stages for one or more companies.
type AnalystService struct {
	cfg              *config.Config
	logger           *logger.Logger
	researcher       *ResearcherService
	reporter         *ReporterService
	watchlistRepo    repository.WatchlistRepository
	researchCache    *cache.Cache
	telegramNotifier telegram.Notifier
}

// NewAnalystService creates a new AnalystService. The Telegram notifier may be nil.
func NewAnalystService(
	cfg *config.Config,
	log *logger.Logger,
	researcher *ResearcherService,
	reporter *ReporterService,
	watchlistRepo repository.WatchlistRepository,
	telegramNotifier telegram.Notifier,
) *AnalystService {
	return &AnalystService{
		cfg:              cfg,
		logger:           log,
		researcher:       researcher,
		reporter:         reporter,
		watchlistRepo:    watchlistRepo,
		researchCache:    cache.New(cfg.Research.CacheTTL, cfg.Research.CacheTTL),
		telegramNotifier: telegramNotifier,
	}
}

// Analyze runs both stages for a single company and returns the structured
// report plus its Markdown rendering.
func (s *AnalystService) Analyze(ctx context.Context, company entity.Company) (*dto.StockReport, string, error) {
	research, err := s.lookupOrResearch(ctx, company)
	if err != nil {
		return nil, "", err
	}

	report, err := s.reporter.GenerateReport(ctx, research)
	if err != nil {
		return nil, "", err
	}

	markdown := s.reporter.RenderMarkdown(report)
	return report, markdown, nil
}

// RunWatchlist analyzes every watchlist entry sequentially. A failure for one
// company is recorded and the run continues with the next entry.
func (s *AnalystService) RunWatchlist(ctx context.Context) ([]dto.AnalysisOutcome, error) {
	companies, err := s.watchlistRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}

	outcomes := make([]dto.AnalysisOutcome, 0, len(companies))
	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		s.logger.Info("Starting analysis", logger.StringField("company", company.DisplayName()))

		outcome := s.AnalyzeAndDeliver(ctx, company)
		if !outcome.IsSuccess {
			s.logger.Error("Analysis failed",
				logger.StringField("company", company.DisplayName()),
				logger.StringField("error", outcome.Error),
			)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// AnalyzeAndDeliver runs both stages for one company and delivers the result:
// the Markdown goes to a report file when an output directory is configured,
// otherwise to stdout, and the Telegram notifier (if any) gets a summary.
func (s *AnalystService) AnalyzeAndDeliver(ctx context.Context, company entity.Company) dto.AnalysisOutcome {
	outcome := dto.AnalysisOutcome{Company: company.DisplayName()}

	report, markdown, err := s.Analyze(ctx, company)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	if s.cfg.Report.OutputDir != "" {
		path, err := s.reporter.WriteReport(report, markdown)
		if err != nil {
			outcome.Error = err.Error()
			return outcome
		}
		outcome.ReportPath = path
	} else {
		fmt.Fprintln(os.Stdout, markdown)
	}

	if s.telegramNotifier != nil {
		if err := s.telegramNotifier.SendMessage(telegram.FormatReportForTelegram(report)); err != nil {
			// Delivery is best effort, the report itself already succeeded.
			s.logger.Warn("Failed to send Telegram notification", logger.ErrorField(err))
		}
	}

	outcome.IsSuccess = true
	return outcome
}

func (s *AnalystService) lookupOrResearch(ctx context.Context, company entity.Company) (*dto.ResearchResult, error) {
	cacheKey := company.DisplayName()
	if cached, found := s.researchCache.Get(cacheKey); found {
		s.logger.Info("Using cached research facts", logger.StringField("company", cacheKey))
		return cached.(*dto.ResearchResult), nil
	}

	research, err := s.researcher.Research(ctx, company)
	if err != nil {
		return nil, err
	}

	s.researchCache.Set(cacheKey, research, cache.DefaultExpiration)
	return research, nil
}
