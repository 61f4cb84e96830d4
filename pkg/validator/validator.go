package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Validator checks request payloads against their `validate` tags.
type Validator interface {
	ValidateStruct(s any) map[string]string
}

type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator reports field errors under their JSON names.
func NewValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &validatorImpl{validate: v}
}

// ValidateStruct returns nil when s is valid, otherwise a message per failing field.
func (v *validatorImpl) ValidateStruct(s any) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"payload": err.Error()}
	}
	validationErrors := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		validationErrors[fieldErr.Field()] = formatValidationError(fieldErr, prettifyFieldName(fieldErr.Field()))
	}
	return validationErrors
}

func formatValidationError(err validator.FieldError, fieldName string) string {
	switch err.Tag() {
	case "required":
		return fieldName + " is required"
	case "email":
		return fieldName + " must be a valid email address"
	case "min":
		return fieldName + " must be at least " + err.Param() + " characters long"
	case "max":
		return fieldName + " must be at most " + err.Param() + " characters long"
	case "oneof":
		return fieldName + " must be one of the following: " + err.Param()
	case "datetime":
		return fieldName + " must be a date in the format " + err.Param()
	default:
		return fieldName + " is invalid"
	}
}

// prettifyFieldName turns camelCase into "Camel Case".
func prettifyFieldName(field string) string {
	var result []rune
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' && field[i-1] >= 'a' && field[i-1] <= 'z' {
			result = append(result, ' ')
		}
		result = append(result, r)
	}
	return cases.Title(language.Und, cases.NoLower).String(string(result))
}
