package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db         *gorm.DB
	question   repositories.QuestionRepository
	mockResult repositories.MockResultRepository
}

// NewRepository wires every PostgreSQL repository onto one GORM handle
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:         db,
		question:   NewQuestionPostgreSQL(db),
		mockResult: NewMockResultPostgreSQL(db),
	}
}

func (r *repository) Question() repositories.QuestionRepository {
	return r.question
}

func (r *repository) MockResult() repositories.MockResultRepository {
	return r.mockResult
}

func (r *repository) WithTransaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
