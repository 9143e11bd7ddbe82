package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by ID matches nothing
var ErrNotFound = errors.New("record not found")

// Repository groups the repositories backed by one database handle
type Repository interface {
	Question() QuestionRepository
	MockResult() MockResultRepository

	// WithTransaction runs fn against repositories bound to a single transaction
	WithTransaction(ctx context.Context, fn func(tx Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err means the record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Category  string `json:"category" form:"category"`
	Search    string `json:"search" form:"search"`
	Limit     int    `json:"limit" form:"limit"`
	Offset    int    `json:"offset" form:"offset"`
	SortBy    string `json:"sort_by" form:"sort_by"`       // "created_at", "category", "id"
	SortOrder string `json:"sort_order" form:"sort_order"` // "asc", "desc"
}

type MockResultFilters struct {
	Mobile    string     `json:"mobile" form:"mobile"`
	Name      string     `json:"name" form:"name"`
	MinScore  *int       `json:"min_score" form:"min_score"`
	DateFrom  *time.Time `json:"date_from" form:"date_from" time_format:"2006-01-02" time_utc:"1"`
	DateTo    *time.Time `json:"date_to" form:"date_to" time_format:"2006-01-02" time_utc:"1"`
	Limit     int        `json:"limit" form:"limit"`
	Offset    int        `json:"offset" form:"offset"`
	SortBy    string     `json:"sort_by" form:"sort_by"`       // "completed_at", "score", "name"
	SortOrder string     `json:"sort_order" form:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

type MockResultAggregate struct {
	TotalResults   int64   `json:"total_results"`
	AverageScore   float64 `json:"average_score"`
	AveragePercent float64 `json:"average_percent"`
	BestScore      int     `json:"best_score"`
	PassedCount    int64   `json:"passed_count"`
}
