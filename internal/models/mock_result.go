package models

import (
	"time"

	"gorm.io/datatypes"
)

// MockResult is the durable transcript of one completed mock test
type MockResult struct {
	ID           uint                                `json:"id" gorm:"primaryKey"`
	TakerName    string                              `json:"name" gorm:"size:100;not null;index"`
	TakerContact string                              `json:"mobile" gorm:"size:20;not null;index"`
	ConnectionID string                              `json:"connection_id,omitempty" gorm:"size:64"`
	Questions    datatypes.JSONSlice[ResultQuestion] `json:"questions" gorm:"type:jsonb"`
	Answers      datatypes.JSONSlice[string]         `json:"answers" gorm:"type:jsonb"`
	Score        int                                 `json:"score" gorm:"not null"`
	Total        int                                 `json:"total" gorm:"not null"`
	CompletedAt  time.Time                           `json:"completed_at" gorm:"not null;index"`
	CreatedAt    time.Time                           `json:"created_at"`
}

func (MockResult) TableName() string {
	return "mock_results"
}

// ResultQuestion is the snapshot of a question as it was presented, correct answer included
type ResultQuestion struct {
	QuestionID    uint     `json:"question_id"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Percentage returns the score as a percentage of the question count
func (r *MockResult) Percentage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.Total)
}

// SnapshotQuestion copies the fields of q that a result keeps
func SnapshotQuestion(q Question) ResultQuestion {
	return ResultQuestion{
		QuestionID:    q.ID,
		Text:          q.Text,
		Options:       append([]string(nil), q.Options...),
		CorrectAnswer: q.CorrectAnswer,
	}
}
