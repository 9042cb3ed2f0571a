package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"jobboard/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// FieldError describes one failed rule on one field
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Errors is returned by ValidateStruct when one or more fields fail
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("jobtype", func(fl validator.FieldLevel) bool {
		return models.JobType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("experience", func(fl validator.FieldLevel) bool {
		return models.ExperienceLevel(fl.Field().String()).Valid()
	})

	return v
}

// ValidateStruct validates a struct using go-playground/validator
func ValidateStruct(s interface{}) error {
	if s == nil {
		return nil
	}

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return fmt.Errorf("validator: expected a struct, got %T", s)
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validation failed: %w", err)
	}

	fields := make(Errors, 0, len(ve))
	for _, e := range ve {
		fields = append(fields, FieldError{
			Field:   e.Field(),
			Rule:    e.Tag(),
			Message: message(e),
		})
	}
	return fields
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "jobtype":
		return fmt.Sprintf("%s must be one of full-time, part-time, contract, internship, freelance", e.Field())
	case "experience":
		return fmt.Sprintf("%s must be one of entry, mid, senior, executive", e.Field())
	default:
		return fmt.Sprintf("%s failed validation: %s", e.Field(), e.Tag())
	}
}
