package container

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. The concrete error types below match them.
var (
	ErrNotFound          = errors.New("container: not found")
	ErrInvalidIdentifier = errors.New("container: invalid identifier")
	ErrConstruction      = errors.New("container: construction failed")
)

// NotFoundError is returned when an identifier has no definition and is not
// a registered type name, or when the identifier itself is invalid.
type NotFoundError struct {
	ID string

	// Invalid is set when ID is not a usable identifier (the empty string).
	Invalid bool
}

func (e *NotFoundError) Error() string {
	if e.Invalid {
		return fmt.Sprintf("container: invalid identifier %q: must be a non-empty string", e.ID)
	}
	return fmt.Sprintf("container: %q is not set and is not a registered type name", e.ID)
}

// Is reports whether target is ErrNotFound, or ErrInvalidIdentifier for
// invalid identifiers.
func (e *NotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	return e.Invalid && target == ErrInvalidIdentifier
}

// ConstructionError is returned when a value cannot be built: a constructor
// parameter is unresolvable, a default cannot be evaluated, or a constructor,
// factory or closure failed.
type ConstructionError struct {
	// Type is the type name or identifier being built.
	Type string

	// Param is the offending constructor parameter, if any.
	Param string

	Reason string
	Cause  error
}

func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("container: unable to create %q", e.Type)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Param != "" {
		msg += fmt.Sprintf(" (parameter %q)", e.Param)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrConstruction.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}

func invalidIdentifier(id string) error {
	return &NotFoundError{ID: id, Invalid: true}
}

func checkID(id string) error {
	if id == "" {
		return invalidIdentifier(id)
	}
	return nil
}

// wrapFailure passes a ConstructionError through unchanged and wraps
// anything else, a NotFoundError included, into a ConstructionError for
// typeName.
func wrapFailure(typeName, reason string, err error) error {
	var ce *ConstructionError
	if errors.As(err, &ce) {
		return err
	}
	return &ConstructionError{Type: typeName, Reason: reason, Cause: err}
}
