package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/mocktest-service/internal/errors"
)

var (
	ErrQuestionNotFound   = errors.New("question not found")
	ErrQuestionPoolEmpty  = errors.New("question pool is empty")
	ErrMockResultNotFound = errors.New("mock result not found")

	// Spreadsheet import
	ErrUnsupportedFile = errors.New("unsupported file format")
	ErrEmptySheet      = errors.New("sheet has no data rows")
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound reports whether err means the requested record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuestionNotFound) || errors.Is(err, ErrMockResultNotFound)
}

// IsValidation reports whether err was caused by bad input rather than a failure on our side
func IsValidation(err error) bool {
	if errors.Is(err, ErrUnsupportedFile) || errors.Is(err, ErrEmptySheet) {
		return true
	}
	var many ValidationErrors
	if errors.As(err, &many) {
		return true
	}
	var one *ValidationError
	return errors.As(err, &one)
}
