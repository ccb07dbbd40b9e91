package domain

import (
	"errors"
	"sort"
	"strings"
)

// ============================================================================
// Model Asset Errors
// ============================================================================

var (
	ErrModelAssetNotFound   = errors.New("model asset not found")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// ============================================================================
// Storage Errors
// ============================================================================

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrStorage      = errors.New("storage failure")
)

// ValidationError collects field-level messages for a rejected request.
// Field names match the multipart form fields.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil lets callers return the collector directly without a typed-nil error.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
