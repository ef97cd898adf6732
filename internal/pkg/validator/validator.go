// Package validator holds the process-wide go-playground validator used for
// values that arrive outside gin's struct binding, such as dynamic form fields.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Var checks a single value against a validator tag, e.g. "http_url" or "numeric".
func Var(value any, tag string) error {
	return validate.Var(value, tag)
}
