package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIndexOutOfRange signals an edit against an entry (or sub-item) index
	// that is not currently valid, typically one captured before a removal.
	ErrIndexOutOfRange = errors.New("model: index out of range")
	// ErrUnknownGroup is returned for a group outside the enumeration.
	ErrUnknownGroup = errors.New("model: unknown group")
	// ErrUnknownField is returned for a sub-field the group does not define.
	ErrUnknownField = errors.New("model: unknown field")
	// ErrInvalidValue is returned when a value has the wrong type or is not one
	// of the allowed choices.
	ErrInvalidValue = errors.New("model: invalid value")
	// ErrTemplateMismatch is returned when AppendEntry receives a template of
	// another group.
	ErrTemplateMismatch = errors.New("model: template does not match group")
	// ErrValidation is matched by *ValidationError.
	ErrValidation = errors.New("model: validation failed")
)

// IndexError describes a rejected stale index. SubIndex is -1 for entry-level
// operations.
type IndexError struct {
	Group    Group
	Index    int
	Len      int
	Field    EntryField
	SubIndex int
	SubLen   int
}

func (e *IndexError) Error() string {
	if e.SubIndex >= 0 {
		return fmt.Sprintf("model: %s[%d].%s[%d]: index out of range (len %d)", e.Group, e.Index, e.Field, e.SubIndex, e.SubLen)
	}
	return fmt.Sprintf("model: %s[%d]: index out of range (len %d)", e.Group, e.Index, e.Len)
}

// Is reports ErrIndexOutOfRange equivalence.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// ValidationError carries submit-time validation failures. Fields is keyed by
// wire path (for example "email"); Form holds user-facing summary messages.
type ValidationError struct {
	Fields map[string][]string
	Form   []string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ErrValidation.Error()
	}
	if len(e.Form) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Form, " ")
}

// Is reports ErrValidation equivalence.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Message returns the blocking message shown to the user.
func (e *ValidationError) Message() string {
	if e == nil {
		return ""
	}
	return strings.Join(e.Form, " ")
}

func (e *ValidationError) add(path, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[path] = append(e.Fields[path], message)
}
