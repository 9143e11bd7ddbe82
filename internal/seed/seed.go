// Package seed carries the default mock test question pool.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/mocktest-service/internal/models"
)

//go:embed questions.json
var questionsJSON []byte

// Questions decodes a fresh copy of the bundled pool
func Questions() ([]*models.Question, error) {
	var questions []*models.Question
	if err := json.Unmarshal(questionsJSON, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode seed questions: %w", err)
	}
	return questions, nil
}
