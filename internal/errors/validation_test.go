package errors

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("mobile", "is required", "")

	assert.Equal(t, "mobile", err.Field)
	assert.Equal(t, "validation error on field 'mobile': is required", err.Error())
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("name", "is required", nil))
	assert.Equal(t, "validation failed: name is required", errs.Error())

	errs = append(errs, *NewValidationError("mobile", "is required", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

type startRequest struct {
	Name    string   `validate:"required"`
	Mobile  string   `validate:"mobile"`
	Options []string `validate:"min=2"`
}

func TestToValidationErrors(t *testing.T) {
	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("mobile", func(validator.FieldLevel) bool { return false }))

	err := validate.Struct(startRequest{})
	errs := ToValidationErrors(fmt.Errorf("wrapped: %w", err))
	require.Len(t, errs, 3)

	messages := map[string]string{}
	for _, e := range errs {
		messages[e.Field] = e.Message
	}
	assert.Equal(t, "is required", messages["Name"])
	assert.Equal(t, "must be at least 2", messages["Options"])
	assert.Contains(t, messages["Mobile"], "valid mobile number")
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	assert.Nil(t, ToValidationErrors(nil))
	assert.Nil(t, ToValidationErrors(fmt.Errorf("boom")))
}
