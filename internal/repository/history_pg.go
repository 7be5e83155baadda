package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-dental-analyzer/pkg/models"
)

// PGHistoryRepository implements HistoryRepository on Postgres. Results
// are stored as a JSON document alongside the columns queries filter on.
type PGHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPGHistoryRepository connects a pool and ensures the schema exists.
func NewPGHistoryRepository(ctx context.Context, databaseURL string) (*PGHistoryRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect history database: %w", err)
	}

	repo := &PGHistoryRepository{pool: pool}
	if err := repo.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

func (r *PGHistoryRepository) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS dental_analyses (
    id         UUID PRIMARY KEY,
    user_id    TEXT NOT NULL,
    result     JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS dental_analyses_user_created_idx
    ON dental_analyses (user_id, created_at);`
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	return nil
}

// Append records a completed analysis for a user.
func (r *PGHistoryRepository) Append(ctx context.Context, userID string, result models.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	const query = `
INSERT INTO dental_analyses (id, user_id, result, created_at)
VALUES ($1, $2, $3, $4)`
	_, err = r.pool.Exec(ctx, query, result.ID, userID, payload, result.Timestamp)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// Recent returns up to limit results for a user, most-recent last.
func (r *PGHistoryRepository) Recent(ctx context.Context, userID string, limit int) ([]models.AnalysisResult, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
SELECT result
FROM dental_analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var results []models.AnalysisResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		var result models.AnalysisResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("decode history row: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	// Rows arrive newest first; callers expect most-recent last.
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// Close releases the connection pool.
func (r *PGHistoryRepository) Close() {
	r.pool.Close()
}

var _ HistoryRepository = (*PGHistoryRepository)(nil)
