// Package validator provides the shared validation engine with custom
// rules for conversation drafts.
package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the shared validator with all custom rules registered.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("positive_decimal", validatePositiveDecimal)
	})
	return validate
}

// validatePositiveDecimal accepts a string field holding a strictly
// positive decimal number.
func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}
