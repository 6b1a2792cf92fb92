package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/flowcast/internal/database"
	"github.com/yourusername/flowcast/internal/models"
)

// ForecastRepository persists future-date point predictions.
type ForecastRepository interface {
	InsertPoints(ctx context.Context, runID uuid.UUID, points []models.ForecastPoint) error
}

// PostgresForecastRepository implements ForecastRepository for PostgreSQL
type PostgresForecastRepository struct {
	db *database.DB
}

// NewPostgresForecastRepository creates a new forecast repository
func NewPostgresForecastRepository(db *database.DB) ForecastRepository {
	return &PostgresForecastRepository{db: db}
}

// InsertPoints inserts one row per (model, future date)
func (r *PostgresForecastRepository) InsertPoints(ctx context.Context, runID uuid.UUID, points []models.ForecastPoint) error {
	query := `
		INSERT INTO forecast_points (run_id, created_at, model_name, forecast_date, value)
		VALUES ($1, $2, $3, $4, $5)
	`

	now := time.Now()
	for _, point := range points {
		_, err := r.db.GetPool().Exec(ctx, query,
			runID, now, point.ModelName, point.Date, point.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert forecast point: %w", err)
		}
	}

	return nil
}
