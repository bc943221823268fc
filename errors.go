package spatial

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/spatial/schema"
)

// Standard sentinel errors for runtime dispatch.
var (
	// ErrUnknownCommand is returned when a command payload carries an index
	// the component does not declare.
	ErrUnknownCommand = errors.New("spatial: unknown command index")

	// ErrUnknownEnumValue is the panic value class for enum wire values
	// outside the declared set.
	ErrUnknownEnumValue = errors.New("spatial: unknown enum value")

	// ErrAlreadyRegistered is returned when a component id is registered twice.
	ErrAlreadyRegistered = errors.New("spatial: component already registered")

	// ErrNotRegistered is returned when a component id has no registration.
	ErrNotRegistered = errors.New("spatial: component not registered")
)

// CommandKind distinguishes the two halves of a command.
type CommandKind string

// Command kinds.
const (
	CommandRequestKind  CommandKind = "request"
	CommandResponseKind CommandKind = "response"
)

// UnknownCommandError is returned when decoding a command payload whose
// index is not declared by the component. It is recoverable: the peer may run
// a different schema version.
type UnknownCommandError struct {
	Component   string // Qualified component name
	ComponentID schema.ComponentID
	Kind        CommandKind
	Index       schema.CommandIndex
}

// Error returns the error string.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("spatial: unrecognised command %s with index %d in component %s (id %d)",
		e.Kind, e.Index, e.Component, e.ComponentID)
}

// Is reports whether the target error matches UnknownCommandError.
// This allows errors.Is(err, ErrUnknownCommand) to return true.
func (e *UnknownCommandError) Is(err error) bool {
	return err == ErrUnknownCommand
}

// NewUnknownCommandError returns a new UnknownCommandError.
func NewUnknownCommandError(component string, id schema.ComponentID, kind CommandKind, index schema.CommandIndex) *UnknownCommandError {
	return &UnknownCommandError{Component: component, ComponentID: id, Kind: kind, Index: index}
}

// IsUnknownCommand returns true if the error is an UnknownCommandError.
func IsUnknownCommand(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownCommandError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownCommand)
}

// UnknownEnumValueError is the value generated enum decoders panic with when
// they see an undeclared wire value. Enums have no open variant, so this is
// never returned as an ordinary error.
type UnknownEnumValueError struct {
	Enum  string // Qualified enum name
	Value uint32
}

// Error returns the error string.
func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("spatial: value %d is not a member of enum %s", e.Value, e.Enum)
}

// Is reports whether the target error matches UnknownEnumValueError.
func (e *UnknownEnumValueError) Is(err error) bool {
	return err == ErrUnknownEnumValue
}

// NewUnknownEnumValueError returns a new UnknownEnumValueError.
func NewUnknownEnumValueError(enum string, value uint32) *UnknownEnumValueError {
	return &UnknownEnumValueError{Enum: enum, Value: value}
}

// RegistrationError is returned by Registry.Register for conflicting or
// incomplete registrations.
type RegistrationError struct {
	Component   string
	ComponentID schema.ComponentID
	Existing    string // Name of the already registered component, if any
	Message     string
}

// Error returns the error string.
func (e *RegistrationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "spatial: register %s (id %d)", e.Component, e.ComponentID)
	if e.Existing != "" {
		fmt.Fprintf(&b, ": id already registered by %s", e.Existing)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrAlreadyRegistered for conflicts.
func (e *RegistrationError) Is(err error) bool {
	return err == ErrAlreadyRegistered && e.Existing != ""
}

// NotRegisteredError is returned when looking up an unregistered component.
type NotRegisteredError struct {
	ComponentID schema.ComponentID
}

// Error returns the error string.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("spatial: component id %d not registered", e.ComponentID)
}

// Is reports whether the target error matches NotRegisteredError.
func (e *NotRegisteredError) Is(err error) bool {
	return err == ErrNotRegistered
}

// IsNotRegistered returns true if the error is a NotRegisteredError.
func IsNotRegistered(err error) bool {
	if err == nil {
		return false
	}
	var e *NotRegisteredError
	return errors.As(err, &e) || errors.Is(err, ErrNotRegistered)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "spatial: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("spatial: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
