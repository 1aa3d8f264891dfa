// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidProduct = errors.New("invalid product data")
var ErrMessagingDisabled = errors.New("whatsapp messaging is not configured")

// ValidationError reports which fields of a product input were rejected and why.
// Fields is keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for the given field errors.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", ErrInvalidProduct, strings.Join(parts, "; "))
}

// Unwrap allows errors.Is(err, ErrInvalidProduct).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidProduct
}
