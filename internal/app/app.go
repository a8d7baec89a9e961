// Package app wires configuration, storage, clients and services into
// the running application.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/brief/internal/clients/claude"
	"github.com/bobmcallan/brief/internal/clients/dart"
	"github.com/bobmcallan/brief/internal/clients/gemini"
	"github.com/bobmcallan/brief/internal/clients/naverfin"
	"github.com/bobmcallan/brief/internal/clients/navernews"
	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
	"github.com/bobmcallan/brief/internal/services/briefing"
	"github.com/bobmcallan/brief/internal/services/disclosure"
	"github.com/bobmcallan/brief/internal/services/mailer"
	"github.com/bobmcallan/brief/internal/services/market"
	"github.com/bobmcallan/brief/internal/services/news"
	"github.com/bobmcallan/brief/internal/services/summary"
	"github.com/bobmcallan/brief/internal/storage/surrealdb"
)

// App holds all initialized clients and services. It is the shared core
// used by cmd/brief-server.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	QuoteClient     interfaces.QuoteClient
	FilingClient    interfaces.FilingClient
	NewsClient      interfaces.NewsClient
	TextGenerator   interfaces.TextGenerator
	BriefingService interfaces.BriefingService
	StartupTime     time.Time

	scheduler *Scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Config resolution: explicit path, BRIEF_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("BRIEF_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "brief.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/brief.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	quoteClient := naverfin.NewClient(
		naverfin.WithBaseURL(config.Clients.NaverFin.BaseURL),
		naverfin.WithLogger(logger),
		naverfin.WithRateLimit(config.Clients.NaverFin.RateLimit),
		naverfin.WithTimeout(config.Clients.NaverFin.GetTimeout()),
	)

	if config.Clients.Dart.APIKey == "" {
		logger.Warn().Msg("DART API key not configured - disclosure collection will be empty")
	}
	filingClient := dart.NewClient(config.Clients.Dart.APIKey,
		dart.WithBaseURL(config.Clients.Dart.BaseURL),
		dart.WithLogger(logger),
		dart.WithRateLimit(config.Clients.Dart.RateLimit),
		dart.WithTimeout(config.Clients.Dart.GetTimeout()),
	)

	if config.Clients.NaverNews.ClientID == "" || config.Clients.NaverNews.ClientSecret == "" {
		logger.Warn().Msg("Naver search credentials not configured - news collection will be empty")
	}
	newsClient := navernews.NewClient(config.Clients.NaverNews.ClientID, config.Clients.NaverNews.ClientSecret,
		navernews.WithBaseURL(config.Clients.NaverNews.BaseURL),
		navernews.WithLogger(logger),
		navernews.WithRateLimit(config.Clients.NaverNews.RateLimit),
		navernews.WithTimeout(config.Clients.NaverNews.GetTimeout()),
	)

	generator, err := newTextGenerator(config, logger)
	if err != nil {
		storageManager.Close()
		return nil, err
	}

	marketService := market.NewService(quoteClient, logger)
	disclosureService := disclosure.NewService(filingClient, logger)
	newsService := news.NewService(newsClient, logger)
	summaryService := summary.NewService(generator, logger)

	transport := mailer.NewSMTPTransport(config.Mail)
	mailerService := mailer.NewService(transport, config.Mail.Workers, logger)

	briefingService := briefing.NewService(
		marketService,
		disclosureService,
		newsService,
		summaryService,
		mailerService,
		storageManager,
		logger,
	)

	app := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		QuoteClient:     quoteClient,
		FilingClient:    filingClient,
		NewsClient:      newsClient,
		TextGenerator:   generator,
		BriefingService: briefingService,
		StartupTime:     time.Now(),
	}

	if config.Schedule.Enabled {
		scheduler, err := NewScheduler(config.Schedule, briefingService, logger)
		if err != nil {
			storageManager.Close()
			return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
		}
		app.scheduler = scheduler
	}

	logger.Info().
		Str("provider", generator.Name()).
		Bool("scheduled", config.Schedule.Enabled).
		Msg("Application initialized")

	return app, nil
}

// newTextGenerator selects the generative backend from configuration.
func newTextGenerator(config *common.Config, logger *common.Logger) (interfaces.TextGenerator, error) {
	ai := config.Clients.AI

	switch ai.Provider {
	case "gemini":
		if ai.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider selected but no API key configured")
		}
		return gemini.NewClient(context.Background(), ai.GeminiAPIKey,
			gemini.WithModel(ai.GeminiModel),
			gemini.WithLogger(logger),
		)
	case "claude", "":
		if ai.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("claude provider selected but no API key configured")
		}
		return claude.NewClient(ai.AnthropicAPIKey,
			claude.WithModel(ai.ClaudeModel),
			claude.WithLogger(logger),
		), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", ai.Provider)
	}
}

// StartScheduler begins the daily trigger if scheduling is enabled.
func (a *App) StartScheduler() {
	if a.scheduler != nil {
		a.scheduler.Start()
	}
}

// Close releases application resources.
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
