// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"pipeline_backend/platform/phone"
	"pipeline_backend/platform/taxid"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the shared custom tags registered:
//
//	cpfcnpj  checksum-valid CPF (11 digits) or CNPJ (14 digits)
//	brphone  10 or 11 digits once formatting is stripped
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("cpfcnpj", func(fl validator.FieldLevel) bool {
		return taxid.Valid(fl.Field().String())
	})
	_ = v.RegisterValidation("brphone", func(fl validator.FieldLevel) bool {
		return phone.IsNationalNumber(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
