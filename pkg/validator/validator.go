// Package validator provides struct validation utilities with custom validators.
package validator

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hookhubio/api/pkg/domain/integration"
)

// Validator wraps the go-playground validator with custom validations.
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range v {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return sb.String()
}

// New creates a new Validator with custom validators registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("integration_type", validateIntegrationType)
	_ = v.RegisterValidation("integration_status", validateIntegrationStatus)
	_ = v.RegisterValidation("integration_category", validateIntegrationCategory)

	return &Validator{validate: v}
}

// Validate validates a struct and returns structured errors.
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalidErr *validator.InvalidValidationError
	if stderrors.As(err, &invalidErr) {
		return fmt.Errorf("invalid validation target: %w", err)
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageForTag(fe),
		})
	}
	return errs
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "integration_type":
		return "must be a valid integration type"
	case "integration_status":
		return "must be a valid integration status"
	case "integration_category":
		return "must be a valid integration category"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func validateIntegrationType(fl validator.FieldLevel) bool {
	return integration.Type(fl.Field().String()).IsValid()
}

func validateIntegrationStatus(fl validator.FieldLevel) bool {
	return integration.Status(fl.Field().String()).IsValid()
}

func validateIntegrationCategory(fl validator.FieldLevel) bool {
	return integration.Category(fl.Field().String()).IsValid()
}
