package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrForbidden is returned when the caller has no rights over the target
// resource. No field detail is attached so nothing about the resource leaks.
var ErrForbidden = errors.New("this action is unauthorized")

// ErrNotFound covers absent, soft-deleted and wrongly scoped resources.
var ErrNotFound = errors.New("resource not found")

// ErrConflict marks a storage-level serialization failure during a guarded
// write. Callers retry once before mapping it to a business-rule error.
var ErrConflict = errors.New("conflicting concurrent write")

// ValidationError carries per-field messages for business-rule violations.
// It maps to an unprocessable (422) response at the HTTP boundary.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Errors[f]))
	}
	return strings.Join(parts, "; ")
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
