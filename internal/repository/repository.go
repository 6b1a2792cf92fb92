package repository

import (
	"fmt"

	"github.com/yourusername/flowcast/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Evaluation EvaluationRepository
	Forecast   ForecastRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Evaluation: NewPostgresEvaluationRepository(db),
		Forecast:   NewPostgresForecastRepository(db),
	}, nil
}
