package container

import (
	"context"
	"fmt"
	"net/http"

	"go-dental-analyzer/internal/analyzer"
	"go-dental-analyzer/internal/config"
	"go-dental-analyzer/internal/factory"
	"go-dental-analyzer/internal/logger"
	"go-dental-analyzer/internal/observer"
	"go-dental-analyzer/internal/repository"
	"go-dental-analyzer/internal/service"
	"go-dental-analyzer/internal/signal"
	"go-dental-analyzer/internal/storage"
	"go-dental-analyzer/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config       *config.Config
	imageFetcher storage.ImageFetcher
	orchestrator *analyzer.Orchestrator
	history      repository.HistoryRepository
	publisher    observer.Subject
	service      service.DentalAnalysisService
	handler      http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	factories := factory.NewComponentFactory()

	imageFetcher, err := factories.StorageFactory.CreateStorage(
		factory.StorageType(cfg.StorageBackend), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create image fetcher: %w", err)
	}

	history, err := factories.HistoryFactory.CreateHistory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create history repository: %w", err)
	}

	orchestrator := analyzer.NewOrchestrator(
		signal.NewExtractor(),
		factories.DetectorFactory.CreateDetector(cfg),
		analyzer.StageTimeouts{
			Enhance:      cfg.EnhanceTimeout,
			ColorAnalyze: cfg.ColorTimeout,
			Detect:       cfg.DetectTimeout,
		},
	)

	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(observer.NewMetricsObserver())

	svc := service.NewDentalAnalysisService(
		imageFetcher, orchestrator, history, publisher,
		cfg.HistoryLimit, cfg.BatchWorkers)
	handler := transport.NewHandler(svc, cfg)

	return &Container{
		config:       cfg,
		imageFetcher: imageFetcher,
		orchestrator: orchestrator,
		history:      history,
		publisher:    publisher,
		service:      svc,
		handler:      handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases pooled resources held by the container.
func (c *Container) Close() {
	if pg, ok := c.history.(*repository.PGHistoryRepository); ok {
		pg.Close()
	}
}
