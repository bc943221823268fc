package load

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for bundle loading and resolution.
var (
	// ErrInvalidBundle indicates a malformed bundle.
	ErrInvalidBundle = errors.New("spatialgen: invalid schema bundle")
	// ErrUnsupportedVersion indicates a bundle without a v1 payload.
	ErrUnsupportedVersion = errors.New("spatialgen: unsupported schema bundle version")
	// ErrUnresolvedReference indicates a reference that could not be resolved.
	ErrUnresolvedReference = errors.New("spatialgen: unresolved reference")
	// ErrMissingDefinition indicates a type or enum absent from the bundle.
	ErrMissingDefinition = errors.New("spatialgen: missing definition")
)

// BundleError represents a malformed or unsupported bundle.
type BundleError struct {
	Version string // Payload version found, set for unsupported versions
	Entity  string // Qualified name of the offending entity (if applicable)
	Source  string // Source location of the entity (if known)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *BundleError) Error() string {
	var b strings.Builder
	b.WriteString("spatialgen: bundle error")
	if e.Version != "" {
		b.WriteString(" (version ")
		b.WriteString(e.Version)
		b.WriteString(")")
	}
	if e.Entity != "" {
		b.WriteString(" on ")
		b.WriteString(e.Entity)
	}
	if e.Source != "" {
		b.WriteString(" at ")
		b.WriteString(e.Source)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *BundleError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel errors for BundleError.
func (e *BundleError) Is(target error) bool {
	return target == ErrInvalidBundle || (target == ErrUnsupportedVersion && e.Version != "")
}

// IsBundleError returns true if the error is a BundleError.
func IsBundleError(err error) bool {
	if err == nil {
		return false
	}
	var e *BundleError
	return errors.As(err, &e)
}

// ReferenceKind names what an unresolved reference pointed at.
type ReferenceKind string

// Reference kinds.
const (
	ReferenceType       ReferenceKind = "type"
	ReferenceEnum       ReferenceKind = "enum"
	ReferenceDependency ReferenceKind = "dependency"
)

// UnresolvedReferenceError represents a failed type, enum or dependency lookup.
type UnresolvedReferenceError struct {
	QualifiedName string
	Kind          ReferenceKind
	Referrer      string   // Entity holding the reference (if known)
	Keys          []string // Dependency keys tried, for dependency lookups
}

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	var b strings.Builder
	if e.Kind == ReferenceDependency {
		fmt.Fprintf(&b, "spatialgen: no dependency matches %s", e.QualifiedName)
		if len(e.Keys) > 0 {
			fmt.Fprintf(&b, " (tried %s)", strings.Join(e.Keys, ", "))
		} else {
			b.WriteString(" (no dependencies configured)")
		}
	} else {
		fmt.Fprintf(&b, "spatialgen: unresolved %s reference %s", e.Kind, e.QualifiedName)
	}
	if e.Referrer != "" {
		fmt.Fprintf(&b, " referenced by %s", e.Referrer)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel errors for
// UnresolvedReferenceError.
func (e *UnresolvedReferenceError) Is(target error) bool {
	switch target {
	case ErrUnresolvedReference:
		return true
	case ErrMissingDefinition:
		return e.Kind != ReferenceDependency
	}
	return false
}

// IsUnresolvedReference returns true if the error is an UnresolvedReferenceError.
func IsUnresolvedReference(err error) bool {
	if err == nil {
		return false
	}
	var e *UnresolvedReferenceError
	return errors.As(err, &e)
}
