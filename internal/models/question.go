package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question categories used by the seeded pool
const (
	CategoryGeneralKnowledge  = "General Knowledge"
	CategoryTechnicalAptitude = "Technical Aptitude"
	CategoryHRAptitude        = "HR Aptitude"
	CategoryAptitude          = "Aptitude"
)

type Question struct {
	ID            uint                        `json:"id" gorm:"primaryKey"`
	Category      string                      `json:"category" gorm:"size:100;index"`
	Text          string                      `json:"question" gorm:"type:text;not null"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"type:jsonb;not null"`
	CorrectAnswer string                      `json:"correct_answer" gorm:"size:500;not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

// HasOption reports whether answer matches one of the options under answer normalization
func (q *Question) HasOption(answer string) bool {
	want := NormalizeAnswer(answer)
	for _, option := range q.Options {
		if NormalizeAnswer(option) == want {
			return true
		}
	}
	return false
}

// IsCorrect reports whether answer matches the correct answer
func (q *Question) IsCorrect(answer string) bool {
	return NormalizeAnswer(answer) == NormalizeAnswer(q.CorrectAnswer)
}

// NormalizeAnswer trims surrounding whitespace and lower-cases an answer for comparison
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
