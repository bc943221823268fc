package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for object decoding failures.
var (
	// ErrFieldType indicates a field holds a value of an unexpected kind.
	ErrFieldType = errors.New("schema: unexpected field value kind")
	// ErrMalformed indicates a wire payload could not be decoded.
	ErrMalformed = errors.New("schema: malformed payload")
)

// FieldError describes a failure to read a field from an Object.
type FieldError struct {
	Field FieldID
	Index int    // Value index within the field, -1 if not applicable
	Want  string // Expected value kind
	Got   string // Actual value kind
	Cause error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema: field %d", e.Field)
	if e.Index >= 0 {
		fmt.Fprintf(&b, " value %d", e.Index)
	}
	if e.Want != "" {
		fmt.Fprintf(&b, ": want %s, got %s", e.Want, e.Got)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrFieldType for kind mismatches.
func (e *FieldError) Is(target error) bool {
	return target == ErrFieldType && e.Want != ""
}

// IsFieldError returns true if the error is a FieldError.
func IsFieldError(err error) bool {
	if err == nil {
		return false
	}
	var e *FieldError
	return errors.As(err, &e)
}

func kindMismatch(id FieldID, index int, want string, raw any) *FieldError {
	return &FieldError{Field: id, Index: index, Want: want, Got: kindName(raw)}
}

func wrapField(id FieldID, index int, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: id, Index: index, Cause: err}
}
