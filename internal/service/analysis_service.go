package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go-dental-analyzer/internal/analyzer"
	apperrors "go-dental-analyzer/internal/errors"
	"go-dental-analyzer/internal/logger"
	"go-dental-analyzer/internal/observer"
	"go-dental-analyzer/internal/repository"
	"go-dental-analyzer/internal/storage"
	"go-dental-analyzer/pkg/models"
)

// DentalAnalysisService is the application-facing API: fetch, analyze,
// persist and report on dental photos.
type DentalAnalysisService interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error)
	AssessRealtime(ctx context.Context, req models.AssessRequest) (*models.AssessResponse, error)
	AnalyzeBatch(ctx context.Context, req models.BatchAnalyzeRequest) ([]models.BatchItemResult, error)
	History(ctx context.Context, userID string) ([]models.AnalyzeResponse, error)
	ValidateImageURL(imageURL string) error
}

type dentalAnalysisService struct {
	fetcher      storage.ImageFetcher
	orchestrator *analyzer.Orchestrator
	history      repository.HistoryRepository
	publisher    observer.Subject
	historyLimit int
	batchWorkers int
}

// NewDentalAnalysisService creates the service. history and publisher may
// be nil; persistence and events are then skipped.
func NewDentalAnalysisService(
	fetcher storage.ImageFetcher,
	orchestrator *analyzer.Orchestrator,
	history repository.HistoryRepository,
	publisher observer.Subject,
	historyLimit int,
	batchWorkers int,
) DentalAnalysisService {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &dentalAnalysisService{
		fetcher:      fetcher,
		orchestrator: orchestrator,
		history:      history,
		publisher:    publisher,
		historyLimit: historyLimit,
		batchWorkers: batchWorkers,
	}
}

// Analyze runs the full pipeline for one photo URL. History persistence is
// best-effort: a storage failure is logged but never fails an otherwise
// complete analysis.
func (s *dentalAnalysisService) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	start := time.Now()

	if err := s.ValidateImageURL(req.URL); err != nil {
		return nil, err
	}

	s.publish(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		Timestamp: start,
		ImageURL:  req.URL,
	})

	img, err := s.fetcher.FetchImage(ctx, req.URL)
	if err != nil {
		s.publish(ctx, observer.AnalysisEvent{
			EventType:    observer.ImageFetchFailed,
			Timestamp:    time.Now(),
			ImageURL:     req.URL,
			ErrorMessage: err.Error(),
		})
		return nil, fetchError(err)
	}
	s.publish(ctx, observer.AnalysisEvent{
		EventType: observer.ImageFetched,
		Timestamp: time.Now(),
		ImageURL:  req.URL,
	})

	user, err := s.resolveUserContext(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := s.orchestrator.Analyze(ctx, img, user, req.Thresholds)
	if err != nil {
		s.publishFailure(ctx, req.URL, start, err)
		return nil, err
	}

	if s.history != nil && req.UserID != "" {
		if herr := s.history.Append(ctx, req.UserID, *result); herr != nil {
			logger.WithError(herr).WithField("user_id", req.UserID).
				Warn("Failed to persist analysis history")
		}
	}

	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Timestamp:      time.Now(),
		ImageURL:       req.URL,
		ProcessingTime: time.Since(start),
		Conditions:     result.Conditions,
	})

	return models.NewAnalyzeResponse(result), nil
}

// AssessRealtime is the cheap pre-capture quality check.
func (s *dentalAnalysisService) AssessRealtime(ctx context.Context, req models.AssessRequest) (*models.AssessResponse, error) {
	if err := s.ValidateImageURL(req.URL); err != nil {
		return nil, err
	}

	img, err := s.fetcher.FetchImage(ctx, req.URL)
	if err != nil {
		return nil, fetchError(err)
	}

	quality := s.orchestrator.AssessRealtime(img)
	return &models.AssessResponse{
		Acceptable: !quality.Poor,
		Issues:     quality.Issues,
		Score:      quality.Score(),
	}, nil
}

// AnalyzeBatch runs each URL through the pipeline on a bounded worker
// pool. Per-image failures are reported in place; one bad photo never
// fails its siblings.
func (s *dentalAnalysisService) AnalyzeBatch(ctx context.Context, req models.BatchAnalyzeRequest) ([]models.BatchItemResult, error) {
	if len(req.URLs) == 0 {
		return nil, apperrors.NewInsufficientData("batch requires at least one URL")
	}

	results := make([]models.BatchItemResult, len(req.URLs))

	pool := analyzer.NewWorkerPool(s.batchWorkers)
	pool.Start()
	defer pool.Close()

	for i, u := range req.URLs {
		i, u := i, u
		pool.Submit(func() {
			resp, err := s.Analyze(ctx, models.AnalyzeRequest{URL: u, UserID: req.UserID})
			if err != nil {
				results[i] = models.BatchItemResult{URL: u, Error: errorResponse(err)}
				return
			}
			results[i] = models.BatchItemResult{URL: u, Result: resp}
		})
	}
	pool.Wait()

	return results, nil
}

// History returns the user's stored analyses, most recent last.
func (s *dentalAnalysisService) History(ctx context.Context, userID string) ([]models.AnalyzeResponse, error) {
	if s.history == nil {
		return nil, apperrors.NewStorageError("history storage is not configured", nil)
	}
	if userID == "" {
		return nil, apperrors.NewInsufficientData("user id is required")
	}

	results, err := s.history.Recent(ctx, userID, s.historyLimit)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []models.AnalyzeResponse{}, nil
		}
		return nil, apperrors.NewStorageError("failed to load history", err)
	}

	responses := make([]models.AnalyzeResponse, 0, len(results))
	for i := range results {
		responses = append(responses, *models.NewAnalyzeResponse(&results[i]))
	}
	return responses, nil
}

// ValidateImageURL rejects URLs the fetcher could never serve.
func (s *dentalAnalysisService) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewInvalidImage(nil)
	}
	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return apperrors.NewInvalidImage(err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return apperrors.NewInvalidImage(nil)
	}
	return nil
}

// resolveUserContext prefers explicit caller context; with Personalize set
// and no explicit context it assembles one from stored history, deriving
// the trend from the direction of the two most recent scores.
func (s *dentalAnalysisService) resolveUserContext(ctx context.Context, req models.AnalyzeRequest) (*models.UserContext, error) {
	if req.UserContext != nil {
		return req.UserContext, nil
	}
	if !req.Personalize || req.UserID == "" || s.history == nil {
		return nil, nil
	}

	recent, err := s.history.Recent(ctx, req.UserID, s.historyLimit)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.WithError(err).WithField("user_id", req.UserID).
				Warn("Failed to load history for personalization")
		}
		return nil, nil
	}
	if len(recent) == 0 {
		return nil, nil
	}

	user := &models.UserContext{RecentHistory: recent}
	if len(recent) >= 2 {
		latest := recent[len(recent)-1].OverallHealthScore()
		previous := recent[len(recent)-2].OverallHealthScore()
		switch {
		case latest > previous:
			user.HealthTrend = models.TrendImproving
		case latest < previous:
			user.HealthTrend = models.TrendDeclining
		default:
			user.HealthTrend = models.TrendStable
		}
	}
	return user, nil
}

func (s *dentalAnalysisService) publish(ctx context.Context, event observer.AnalysisEvent) {
	if s.publisher != nil {
		s.publisher.NotifyObservers(ctx, event)
	}
}

func (s *dentalAnalysisService) publishFailure(ctx context.Context, imageURL string, start time.Time, err error) {
	appErr := apperrors.Normalize(err)
	event := observer.AnalysisEvent{
		Timestamp:      time.Now(),
		ImageURL:       imageURL,
		ProcessingTime: time.Since(start),
		ErrorKind:      string(appErr.Kind),
		ErrorMessage:   appErr.Message,
	}
	if appErr.Kind == apperrors.KindLowQualityImage {
		event.EventType = observer.AnalysisRejected
		event.QualityIssues = appErr.Issues
	} else {
		event.EventType = observer.AnalysisFailed
	}
	s.publish(ctx, event)
}

// fetchError maps a fetcher failure onto the error taxonomy: a fetcher
// that already classified the failure (an undecodable body is
// invalid_image, not a transport problem) keeps its kind; anything else
// is a network error.
func fetchError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewNetworkError("failed to fetch image", err)
}

// errorResponse converts any error into the wire error contract.
func errorResponse(err error) *models.ErrorResponse {
	appErr := apperrors.Normalize(err)
	return &models.ErrorResponse{
		ErrorKind:          string(appErr.Kind),
		Message:            apperrors.UserMessage(appErr.Kind),
		RecoverySuggestion: apperrors.RecoverySuggestion(appErr.Kind),
		Issues:             appErr.Issues,
	}
}
