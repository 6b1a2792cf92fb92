// Package repository persists run results to the report sink database.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/flowcast/internal/database"
	"github.com/yourusername/flowcast/internal/models"
)

// EvaluationRepository persists evaluation records and the ranked comparison
// table for a run.
type EvaluationRepository interface {
	InsertRecords(ctx context.Context, runID uuid.UUID, records []models.EvaluationRecord) error
	InsertComparison(ctx context.Context, runID uuid.UUID, rows []models.ComparisonRow) error
}

// PostgresEvaluationRepository implements EvaluationRepository for PostgreSQL
type PostgresEvaluationRepository struct {
	db *database.DB
}

// NewPostgresEvaluationRepository creates a new evaluation repository
func NewPostgresEvaluationRepository(db *database.DB) EvaluationRepository {
	return &PostgresEvaluationRepository{db: db}
}

// InsertRecords inserts one row per (model, split, metric)
func (r *PostgresEvaluationRepository) InsertRecords(ctx context.Context, runID uuid.UUID, records []models.EvaluationRecord) error {
	query := `
		INSERT INTO evaluation_records (run_id, created_at, model_name, split, metric, value)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()
	for _, record := range records {
		_, err := r.db.GetPool().Exec(ctx, query,
			runID, now, record.ModelName, string(record.Split), record.Metric, record.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert evaluation record: %w", err)
		}
	}

	return nil
}

// InsertComparison inserts the ranked comparison table
func (r *PostgresEvaluationRepository) InsertComparison(ctx context.Context, runID uuid.UUID, rows []models.ComparisonRow) error {
	query := `
		INSERT INTO comparison_rows (run_id, created_at, model_name, category, rank, metrics)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()
	for _, row := range rows {
		metricsJSON, err := json.Marshal(row.Metrics)
		if err != nil {
			return fmt.Errorf("failed to marshal comparison metrics: %w", err)
		}
		_, err = r.db.GetPool().Exec(ctx, query,
			runID, now, row.ModelName, string(row.Category), row.Rank, metricsJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert comparison row: %w", err)
		}
	}

	return nil
}
