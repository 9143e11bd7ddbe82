package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/mocktest-service/internal/models"
)

const (
	minOptions    = 2
	maxOptions    = 6
	maxTextLength = 2000
)

// QuestionValidator handles the multiple-choice rules that struct tags cannot express
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// Validate checks a question and returns every rule it breaks
func (v *QuestionValidator) Validate(question *models.Question) ValidationErrors {
	var errs ValidationErrors

	text := strings.TrimSpace(question.Text)
	if text == "" {
		errs = append(errs, ValidationError{Field: "question", Message: "is required", Rule: "required"})
	} else if len(text) > maxTextLength {
		errs = append(errs, ValidationError{
			Field:   "question",
			Message: fmt.Sprintf("must be at most %d characters", maxTextLength),
			Rule:    "max",
		})
	}

	if len(question.Options) < minOptions || len(question.Options) > maxOptions {
		errs = append(errs, ValidationError{
			Field:   "options",
			Message: fmt.Sprintf("must have between %d and %d options", minOptions, maxOptions),
			Value:   len(question.Options),
			Rule:    "options_count",
		})
	}

	seen := make(map[string]bool, len(question.Options))
	for i, option := range question.Options {
		normalized := models.NormalizeAnswer(option)
		if normalized == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("options[%d]", i),
				Message: "must not be blank",
				Rule:    "notblank",
			})
			continue
		}
		if seen[normalized] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("options[%d]", i),
				Message: "duplicates another option",
				Value:   option,
				Rule:    "unique",
			})
		}
		seen[normalized] = true
	}

	if strings.TrimSpace(question.CorrectAnswer) == "" {
		errs = append(errs, ValidationError{Field: "correct_answer", Message: "is required", Rule: "required"})
	} else if !question.HasOption(question.CorrectAnswer) {
		errs = append(errs, ValidationError{
			Field:   "correct_answer",
			Message: "must match one of the options",
			Value:   question.CorrectAnswer,
			Rule:    "in_options",
		})
	}

	return errs
}

// ValidateBatch validates multiple questions, prefixing field names with the batch position
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) ValidationErrors {
	if len(questions) == 0 {
		return ValidationErrors{{Field: "questions", Message: "batch cannot be empty", Rule: "min"}}
	}

	var errs ValidationErrors
	for i, question := range questions {
		for _, e := range v.Validate(question) {
			e.Field = fmt.Sprintf("questions[%d].%s", i, e.Field)
			errs = append(errs, e)
		}
	}
	return errs
}
