package repository

import (
	"context"
	"errors"
	"sync"

	"go-dental-analyzer/pkg/models"
)

// ErrNotFound is returned when a user has no recorded history.
var ErrNotFound = errors.New("no history for user")

// HistoryRepository persists completed analyses. The pipeline core never
// reads it; the service layer appends results and assembles personalization
// context from it on request. Entries are ordered most-recent last.
type HistoryRepository interface {
	Append(ctx context.Context, userID string, result models.AnalysisResult) error
	Recent(ctx context.Context, userID string, limit int) ([]models.AnalysisResult, error)
}

// MemoryHistoryRepository is the in-process store used in development and
// tests.
type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	results map[string][]models.AnalysisResult
	cap     int
}

// NewMemoryHistoryRepository creates a store keeping at most cap results
// per user (oldest dropped first).
func NewMemoryHistoryRepository(cap int) *MemoryHistoryRepository {
	if cap < 1 {
		cap = 50
	}
	return &MemoryHistoryRepository{
		results: make(map[string][]models.AnalysisResult),
		cap:     cap,
	}
}

// Append records a completed analysis for a user.
func (r *MemoryHistoryRepository) Append(ctx context.Context, userID string, result models.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append(r.results[userID], result)
	if len(entries) > r.cap {
		entries = entries[len(entries)-r.cap:]
	}
	r.results[userID] = entries
	return nil
}

// Recent returns up to limit results for a user, most-recent last.
func (r *MemoryHistoryRepository) Recent(ctx context.Context, userID string, limit int) ([]models.AnalysisResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.results[userID]
	if !ok || len(entries) == 0 {
		return nil, ErrNotFound
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]models.AnalysisResult, len(entries))
	copy(out, entries)
	return out, nil
}
