package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Field names used as keys of ValidationError.Fields.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldRating      = "rating"
	FieldCategoryID  = "categoryId"
	FieldImage       = "image"
)

// ErrProductNotFound matches every NotFoundError.
var ErrProductNotFound = errors.New("product not found")

// ValidationError lists the input fields that were rejected. Nothing has been
// written to the store or the image directory when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
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
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError is returned when the requested product does not exist.
type NotFoundError struct {
	ID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrProductNotFound
}
