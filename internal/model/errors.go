package model

import (
	"fmt"
	"strconv"
)

// ValidationError reports a task field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func errRequired(field string) error {
	return &ValidationError{Field: field, Reason: "required"}
}

func quote(s string) string { return strconv.Quote(s) }
