// Package app assembles the services shared by the API server and the
// fetch CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timmy/pvhub/internal/cache"
	"github.com/timmy/pvhub/internal/config"
	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/logger"
	"github.com/timmy/pvhub/internal/notify"
	"github.com/timmy/pvhub/internal/prompts"
	"github.com/timmy/pvhub/internal/repository"
	"github.com/timmy/pvhub/internal/service"
	"github.com/timmy/pvhub/internal/source"
	"github.com/timmy/pvhub/internal/source/htmlfetch"
	"github.com/timmy/pvhub/internal/source/sites"
	"github.com/timmy/pvhub/internal/storage"
	"gorm.io/gorm"
)

// App holds the wired service graph.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Archiver *storage.Archiver // nil when snapshots are disabled
	Notifier notify.Notifier

	Ingest  *service.ContentIngestService
	Runner  *service.IngestRunner
	Content *service.ContentService
	Catalog *service.CatalogService
	Summary *service.SummaryService
	LLM     *service.LLMClient

	closers []func() error
}

// New builds the service graph from cfg. Optional integrations (redis,
// snapshots, notification channels) are skipped when unconfigured.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	newsRepo := repository.NewNewsRepository(db)
	tenderRepo := repository.NewTenderRepository(db)
	jobRepo := repository.NewJobLogRepository(db)
	manufacturerRepo := repository.NewManufacturerRepository(db)

	a.Notifier = a.buildNotifier(cfg.Notify)

	var statsCache service.StatsCache
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.CtxWarn(ctx, "Redis cache disabled: %v", err)
		} else {
			statsCache = rc
			a.closers = append(a.closers, rc.Close)
		}
	}

	var snapshots source.SnapshotSink
	archiver, err := storage.NewArchiverFromConfig(ctx, &cfg.Snapshot)
	if err != nil {
		logger.CtxWarn(ctx, "Snapshot archive disabled: %v", err)
	} else if archiver != nil {
		a.Archiver = archiver
		snapshots = archiver
	}

	fetcher := htmlfetch.NewFetcher(htmlfetch.Config{
		Timeout:   cfg.Fetch.Timeout,
		Retries:   cfg.Fetch.Retries,
		UserAgent: cfg.Fetch.UserAgent,
	})
	adapters, err := sites.Build(cfg.Sources.Enabled, fetcher, snapshots)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build sources: %w", err)
	}

	a.LLM = service.NewLLMClient(&service.LLMClientConfig{
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Timeout:   cfg.LLM.Timeout,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if cfg.LLM.APIKey == "" {
		logger.CtxWarn(ctx, "LLM API key is empty; parsing and fallback will yield nothing")
	}

	newsEnricher := service.NewEnricher[service.NewsCandidate](
		a.LLM, prompts.MustLookup(domain.RecordKindNews), cfg.Ingest.ParseLimit, nil)
	tenderEnricher := service.NewEnricher[service.TenderCandidate](
		a.LLM, prompts.MustLookup(domain.RecordKindTender), cfg.Ingest.ParseLimit, nil)

	a.Ingest = service.NewContentIngestService(
		adapters, newsEnricher, tenderEnricher, newsRepo, tenderRepo,
		service.ContentIngestConfig{
			Keyword:      cfg.Fetch.Keyword,
			NewsTarget:   cfg.Ingest.NewsTarget,
			TenderTarget: cfg.Ingest.TenderTarget,
		},
	)
	a.Runner = service.NewIngestRunner(a.Ingest, jobRepo, a.Notifier, nil)
	a.Content = service.NewContentService(newsRepo, tenderRepo, manufacturerRepo, jobRepo, service.ContentServiceConfig{
		Cache:    statsCache,
		StatsTTL: cfg.Cache.StatsTTL,
		Notifier: a.Notifier,
	})
	a.Catalog = service.NewCatalogService(
		manufacturerRepo,
		repository.NewEfficiencyRepository(db),
		repository.NewPaperRepository(db),
		repository.NewPatentRepository(db),
	)
	a.Summary = service.NewSummaryService(a.LLM)

	logger.With(logger.Fields{
		"sources":   len(adapters),
		"model":     a.LLM.GetModel(),
		"cache":     statsCache != nil,
		"snapshots": a.Archiver != nil,
	}).Info(ctx, "Services initialized")
	return a, nil
}

// NewScheduler builds the daily timer. Each run invalidates cached stats.
func (a *App) NewScheduler() (*service.Scheduler, error) {
	loc := time.UTC
	if tz := a.Config.Scheduler.Timezone; tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone %q: %w", tz, err)
		}
		loc = l
	}
	return service.NewScheduler(a.Config.Scheduler.Spec, loc, func(ctx context.Context) {
		if _, err := a.Runner.Run(ctx, service.TriggerScheduled); err != nil {
			logger.CtxWarn(ctx, "Scheduled run failed: %v", err)
		}
		a.Content.InvalidateStats(ctx)
	})
}

// Close releases every connection opened by New, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildNotifier(cfg config.NotifyConfig) notify.Notifier {
	var channels []notify.Notifier
	if cfg.Webhook.URL != "" {
		channels = append(channels, notify.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Token))
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		channels = append(channels, notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.BaseURL))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		kn := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		channels = append(channels, kn)
		a.closers = append(a.closers, kn.Close)
	}
	if len(channels) == 0 {
		return notify.LogNotifier{}
	}
	return notify.NewMulti(channels...)
}
