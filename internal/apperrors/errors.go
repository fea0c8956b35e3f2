// Package apperrors defines the error kinds surfaced by the record services.
package apperrors

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// FieldError describes one rejected field. Field is the JSON name of the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports fields outside their declared range or choice set,
// or required fields that are missing.
type ValidationError struct {
	Errors []FieldError
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the rejected fields keyed by name.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Has reports whether field is among the rejected fields.
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// UniquenessViolation reports a write that would duplicate an indexed key tuple.
type UniquenessViolation struct {
	Constraint string
	Fields     []string
}

func (e *UniquenessViolation) Error() string {
	return "unique constraint " + e.Constraint + " violated on (" + strings.Join(e.Fields, ", ") + ")"
}

// FieldMessages returns one message per field of the violated key.
func (e *UniquenessViolation) FieldMessages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	msg := "a record with this " + joinFields(e.Fields) + " already exists"
	for _, f := range e.Fields {
		out[f] = msg
	}
	return out
}

func joinFields(fields []string) string {
	if len(fields) == 1 {
		return fields[0]
	}
	return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsUniqueness unwraps err into a *UniquenessViolation when it is one.
func AsUniqueness(err error) (*UniquenessViolation, bool) {
	var ue *UniquenessViolation
	ok := errors.As(err, &ue)
	return ue, ok
}
