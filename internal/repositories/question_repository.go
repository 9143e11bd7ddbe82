package repositories

import (
	"context"

	"github.com/SAP-F-2025/mocktest-service/internal/models"
)

// QuestionRepository interface for the mock-test question pool
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Delete(ctx context.Context, id uint) error

	// Bulk operations
	CreateBatch(ctx context.Context, questions []*models.Question) error
	DeleteAll(ctx context.Context) (int64, error)

	// Query operations
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	Count(ctx context.Context) (int64, error)

	// Sample returns up to n questions chosen uniformly at random without replacement.
	// A pool smaller than n is returned whole.
	Sample(ctx context.Context, n int) ([]*models.Question, error)
}
