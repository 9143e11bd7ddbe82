package validator

import (
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/SAP-F-2025/mocktest-service/internal/errors"
	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/go-playground/validator/v10"
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

var mobilePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Validator is the main validator instance that combines struct tags and question rules
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags and converts failures to ValidationErrors
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.structValidator.Struct(s)
	if err == nil {
		return nil
	}
	if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
		return errs
	}
	return err
}

// Validate performs complete validation (struct tags, then question rules when s is a question)
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	if question, ok := s.(*models.Question); ok {
		if errs := v.questionValidator.Validate(question); len(errs) > 0 {
			return errs
		}
	}

	return nil
}

// Var validates a single value against a tag
func (v *Validator) Var(field interface{}, tag string) error {
	return v.structValidator.Var(field, tag)
}

func (v *Validator) GetQuestionValidator() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("mobile", validateMobile)
	validate.RegisterValidation("notblank", validateNotBlank)
	validate.RegisterValidation("question_category", validateQuestionCategory)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateMobile(fl validator.FieldLevel) bool {
	value := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	return mobilePattern.MatchString(value)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateQuestionCategory(fl validator.FieldLevel) bool {
	validCategories := []string{
		models.CategoryGeneralKnowledge,
		models.CategoryTechnicalAptitude,
		models.CategoryHRAptitude,
		models.CategoryAptitude,
	}

	value := fl.Field().String()
	for _, category := range validCategories {
		if category == value {
			return true
		}
	}
	return false
}
