package logstore

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store failures.
type ErrorKind int

const (
	// KindIO marks filesystem failures (permissions, disk, missing directory).
	KindIO ErrorKind = iota
	// KindUnknownCategory marks a category outside the configured set.
	KindUnknownCategory
	// KindInvalidCount marks a negative line count.
	KindInvalidCount
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindUnknownCategory:
		return "unknown_category"
	case KindInvalidCount:
		return "invalid_count"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownCategory is matched by errors.Is for KindUnknownCategory errors.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidCount is matched by errors.Is for KindInvalidCount errors.
	ErrInvalidCount = errors.New("invalid count")
)

// Error is the typed failure returned by Store operations.
type Error struct {
	Kind     ErrorKind
	Op       string // "append" or "read"
	Category Category
	Err      error
}

func (e *Error) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("logstore %s %s: %v", e.Op, e.Category, e.Err)
	}
	return fmt.Sprintf("logstore %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality with the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnknownCategory:
		return e.Kind == KindUnknownCategory
	case ErrInvalidCount:
		return e.Kind == KindInvalidCount
	}
	return false
}

// KindOf returns the kind of a store error and whether err is one.
func KindOf(err error) (ErrorKind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
