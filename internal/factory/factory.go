package factory

import (
	"context"
	"fmt"

	"go-dental-analyzer/internal/analyzer"
	"go-dental-analyzer/internal/config"
	"go-dental-analyzer/internal/repository"
	"go-dental-analyzer/internal/storage"
)

// StorageType represents different image source backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// StorageFactory creates image fetchers
type StorageFactory interface {
	CreateStorage(storageType StorageType, cfg *config.Config) (storage.ImageFetcher, error)
}

// DetectorFactory creates the ML detector used alongside the rule engine
type DetectorFactory interface {
	CreateDetector(cfg *config.Config) analyzer.MLDetector
}

// HistoryFactory creates the history repository
type HistoryFactory interface {
	CreateHistory(ctx context.Context, cfg *config.Config) (repository.HistoryRepository, error)
}

type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateStorage creates an image fetcher for the configured backend
func (f *storageFactory) CreateStorage(storageType StorageType, cfg *config.Config) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(), nil
	case AzureStorage:
		return storage.NewAzureImageFetcher(cfg.AzureAccountName, cfg.AzureAccountKey)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

type detectorFactory struct{}

// NewDetectorFactory creates a new detector factory
func NewDetectorFactory() DetectorFactory {
	return &detectorFactory{}
}

// CreateDetector returns the ML detector, or nil when the pipeline runs
// rule-based only.
func (f *detectorFactory) CreateDetector(cfg *config.Config) analyzer.MLDetector {
	if !cfg.MLEnabled {
		return nil
	}
	// No trained model is shipped yet; the stub makes the rule-based
	// fallback path exercisable in production configs.
	return analyzer.StubMLDetector{}
}

type historyFactory struct{}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory() HistoryFactory {
	return &historyFactory{}
}

// CreateHistory selects Postgres when a database URL is configured and the
// in-memory store otherwise.
func (f *historyFactory) CreateHistory(ctx context.Context, cfg *config.Config) (repository.HistoryRepository, error) {
	if cfg.DatabaseURL == "" {
		return repository.NewMemoryHistoryRepository(cfg.HistoryLimit), nil
	}
	return repository.NewPGHistoryRepository(ctx, cfg.DatabaseURL)
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StorageFactory  StorageFactory
	DetectorFactory DetectorFactory
	HistoryFactory  HistoryFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		StorageFactory:  NewStorageFactory(),
		DetectorFactory: NewDetectorFactory(),
		HistoryFactory:  NewHistoryFactory(),
	}
}
