package postgres

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories"
	"gorm.io/gorm"
)

var mockResultSortColumns = map[string]string{
	"completed_at": "completed_at",
	"score":        "score",
	"name":         "taker_name",
}

type MockResultPostgreSQL struct {
	db *gorm.DB
}

func NewMockResultPostgreSQL(db *gorm.DB) repositories.MockResultRepository {
	return &MockResultPostgreSQL{db: db}
}

// Create inserts one transcript; concurrent inserts from many sessions are independent rows
func (m *MockResultPostgreSQL) Create(ctx context.Context, result *models.MockResult) error {
	return m.db.WithContext(ctx).Create(result).Error
}

func (m *MockResultPostgreSQL) GetByID(ctx context.Context, id uint) (*models.MockResult, error) {
	var result models.MockResult
	if err := m.db.WithContext(ctx).First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (m *MockResultPostgreSQL) List(ctx context.Context, filters repositories.MockResultFilters) ([]*models.MockResult, int64, error) {
	var results []*models.MockResult
	var total int64

	query := m.db.WithContext(ctx).Model(&models.MockResult{})
	query = m.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder,
		mockResultSortColumns, "completed_at")

	if err := query.Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func (m *MockResultPostgreSQL) Aggregate(ctx context.Context, passPercent int) (*repositories.MockResultAggregate, error) {
	var row repositories.MockResultAggregate
	if err := m.db.WithContext(ctx).
		Model(&models.MockResult{}).
		Select(`COUNT(*) AS total_results,
			COALESCE(AVG(score), 0) AS average_score,
			COALESCE(AVG(score * 100.0 / NULLIF(total, 0)), 0) AS average_percent,
			COALESCE(MAX(score), 0) AS best_score,
			COUNT(*) FILTER (WHERE total > 0 AND score * 100.0 / total >= ?) AS passed_count`, passPercent).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (m *MockResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.MockResultFilters) *gorm.DB {
	if filters.Mobile != "" {
		query = query.Where("taker_contact = ?", filters.Mobile)
	}
	if filters.Name != "" {
		query = query.Where("taker_name ILIKE ?", likePattern(filters.Name))
	}
	if filters.MinScore != nil {
		query = query.Where("score >= ?", *filters.MinScore)
	}
	if filters.DateFrom != nil {
		query = query.Where("completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("completed_at < ?", filters.DateTo.AddDate(0, 0, 1))
	}
	return query
}
