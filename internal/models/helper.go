package models

import "time"

// ImportSummary reports the outcome of a spreadsheet question import
type ImportSummary struct {
	TotalRows        int                     `json:"total_rows"`
	SuccessCount     int                     `json:"success_count"`
	ErrorCount       int                     `json:"error_count"`
	CreatedQuestions []uint                  `json:"created_questions"`
	Errors           []ImportValidationError `json:"errors"`
	ProcessingTime   time.Duration           `json:"processing_time"`
}

// ImportValidationError describes why a spreadsheet row was rejected
type ImportValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// MockResultStats aggregates completed mock tests
type MockResultStats struct {
	TotalResults   int64     `json:"total_results"`
	AverageScore   float64   `json:"average_score"`
	AveragePercent float64   `json:"average_percent"`
	BestScore      int       `json:"best_score"`
	PassPercent    int       `json:"pass_percent"`
	PassedCount    int64     `json:"passed_count"`
	PassRate       float64   `json:"pass_rate"` // 0.0 - 1.0
	CalculatedAt   time.Time `json:"calculated_at"`
}
