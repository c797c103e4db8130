package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a required element or attribute is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField is returned when a required value cannot be parsed.
	ErrInvalidField = errors.New("invalid field value")
)

// FieldError reports which field of a page could not be extracted.
type FieldError struct {
	// Field is the record field, such as "date_added".
	Field string

	// Selector is the CSS selector the value was read from.
	Selector string

	// Value is the raw value for invalid fields. Empty for missing fields.
	Value string

	// Err is ErrMissingField or ErrInvalidField.
	Err error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s (%s): %v: %q", e.Field, e.Selector, e.Err, e.Value)
	}
	return fmt.Sprintf("%s (%s): %v", e.Field, e.Selector, e.Err)
}

// Unwrap returns the sentinel error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

func missing(field, selector string) error {
	return &FieldError{Field: field, Selector: selector, Err: ErrMissingField}
}

func invalid(field, selector, value string) error {
	return &FieldError{Field: field, Selector: selector, Value: value, Err: ErrInvalidField}
}
