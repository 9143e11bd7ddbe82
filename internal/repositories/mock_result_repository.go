package repositories

import (
	"context"

	"github.com/SAP-F-2025/mocktest-service/internal/models"
)

// MockResultRepository interface for completed mock-test transcripts
type MockResultRepository interface {
	Create(ctx context.Context, result *models.MockResult) error
	GetByID(ctx context.Context, id uint) (*models.MockResult, error)
	List(ctx context.Context, filters MockResultFilters) ([]*models.MockResult, int64, error)

	// Aggregate computes summary statistics; passPercent is the pass threshold in percent
	Aggregate(ctx context.Context, passPercent int) (*MockResultAggregate, error)
}
