package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang-stock-analyst/internal/analyst/config"
	"golang-stock-analyst/internal/analyst/repository"
	"golang-stock-analyst/internal/analyst/service"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
	"golang-stock-analyst/pkg/telegram"
	"golang-stock-analyst/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	configPath string
	ticker     string
	reportURL  string
	outputDir  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [company name]",
	Short: "Research a stock and print a Markdown report",
	Long: `Runs the two-stage analysis chain: a researcher agent gathers current facts
about the stock through web search and document analysis, then a reporter
agent compiles them into a structured Markdown report. Without arguments the
whole watchlist is analyzed.`,
	Run: runAnalyze,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the watchlist analysis on a cron schedule",
	Run:   runSchedule,
}

func runAnalyze(cmd *cobra.Command, args []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, appLogger, analystSvc := mustBuildService(ctx)
	defer func() { _ = appLogger.Sync() }()

	if len(args) > 0 {
		company := entity.Company{
			Name:      strings.Join(args, " "),
			Ticker:    strings.ToUpper(ticker),
			ReportURL: reportURL,
		}
		outcome := analystSvc.AnalyzeAndDeliver(ctx, company)
		if !outcome.IsSuccess {
			appLogger.Fatal("Analysis failed", zap.String("company", company.DisplayName()), zap.String("error", outcome.Error))
		}
		if outcome.ReportPath != "" {
			appLogger.Info("Report written", zap.String("path", outcome.ReportPath))
		}
		return
	}

	outcomes, err := analystSvc.RunWatchlist(ctx)
	if err != nil {
		appLogger.Fatal("Watchlist run failed", zap.Error(err))
	}

	failed := 0
	for _, outcome := range outcomes {
		if !outcome.IsSuccess {
			failed++
		}
	}
	appLogger.Info("Watchlist run finished",
		logger.IntField("companies", len(outcomes)),
		logger.IntField("failed", failed),
	)
}

func runSchedule(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, appLogger, analystSvc := mustBuildService(ctx)
	defer func() { _ = appLogger.Sync() }()

	if cfg.Schedule.Cron == "" {
		appLogger.Fatal("No cron expression configured under schedule.cron")
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule.Cron, func() {
		// A panicking run must not take down the scheduler.
		utils.GoSafe(appLogger, func() {
			appLogger.Info("Scheduled watchlist run starting")
			if _, err := analystSvc.RunWatchlist(ctx); err != nil {
				appLogger.Error("Scheduled watchlist run failed", zap.Error(err))
			}
		})
	})
	if err != nil {
		appLogger.Fatal("Invalid cron expression", zap.String("cron", cfg.Schedule.Cron), zap.Error(err))
	}
	c.Start()

	appLogger.Info("Scheduler started. Waiting for runs...", zap.String("cron", cfg.Schedule.Cron))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down scheduler...")
	cancel()
	<-c.Stop().Done()
	appLogger.Info("Scheduler stopped.")
}

// mustBuildService wires configuration, logging, repositories and services.
func mustBuildService(ctx context.Context) (*config.Config, *logger.Logger, *service.AnalystService) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if outputDir != "" {
		cfg.Report.OutputDir = outputDir
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLogger.Info("Starting Stock Analyst", zap.String("name", cfg.App.Name))

	genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", zap.Error(err))
	}

	aiRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI repository", zap.Error(err))
	}

	searchRepo, err := repository.NewTavilyRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Tavily repository", zap.Error(err))
	}

	filingRepo := repository.NewFilingRepository(cfg, appLogger)
	newsFeedRepo := repository.NewNewsFeedRepository(cfg, appLogger)
	watchlistRepo := repository.NewWatchlistRepository(cfg, appLogger)

	var telegramNotifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
		}
	}

	tools := []service.Tool{
		service.NewWebSearchTool(searchRepo, appLogger),
		service.NewFilingTool(filingRepo, aiRepo, appLogger),
		service.NewNewsHeadlinesTool(newsFeedRepo, appLogger),
	}

	researcher := service.NewResearcherService(cfg, appLogger, aiRepo, tools)
	reporter := service.NewReporterService(cfg, appLogger, aiRepo)
	analystSvc := service.NewAnalystService(cfg, appLogger, researcher, reporter, watchlistRepo, telegramNotifier)

	return cfg, appLogger, analystSvc
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "analyst",
		Short: "A CLI for researching stocks and generating Markdown analysis reports",
	}

	analyzeCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")
	analyzeCmd.Flags().StringVarP(&ticker, "ticker", "t", "", "Ticker symbol for a single-company run")
	analyzeCmd.Flags().StringVarP(&reportURL, "report-url", "r", "", "Official financial report URL for a single-company run")
	analyzeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write report files instead of stdout")

	scheduleCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")
	scheduleCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write report files instead of stdout")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scheduleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analyst CLI: %s\n", err)
		os.Exit(1)
	}
}
