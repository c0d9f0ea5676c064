package logquery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/activitylog/logstore"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// KindFormat means the command did not split into "<head>: <command>".
	KindFormat ErrorKind = iota
	// KindCategory means the category is not in the configured set.
	KindCategory
	// KindCount means "last" was not followed by a positive integer.
	KindCount
	// KindCommand means the command was neither "last N" nor "all".
	KindCommand
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindCategory:
		return "category"
	case KindCount:
		return "count"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// ParseError is returned by Parse. Message is the user-facing text.
type ParseError struct {
	Kind    ErrorKind
	Input   string
	Message string
	Err     error
}

func (e *ParseError) Error() string { return e.Message }

// Unwrap returns the underlying cause, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// Query is a parsed search command. Last == 0 selects every entry.
type Query struct {
	Category logstore.Category
	Last     int
}

// All reports whether the query selects the whole file.
func (q Query) All() bool { return q.Last == 0 }

// String renders the query in canonical grammar.
func (q Query) String() string {
	if q.All() {
		return fmt.Sprintf("search %s: all", q.Category)
	}
	return fmt.Sprintf("search %s: last %d", q.Category, q.Last)
}

// Parse parses a search command against the given category set.
func Parse(command string, categories []logstore.Category) (Query, error) {
	parts := strings.Split(strings.ToLower(command), ":")
	if len(parts) != 2 {
		return Query{}, &ParseError{
			Kind:    KindFormat,
			Input:   command,
			Message: "Error: Input must be in format 'search <type>: <last N/all>'",
		}
	}

	token := strings.TrimSpace(strings.ReplaceAll(parts[0], "search", ""))
	category, ok := lookup(token, categories)
	if !ok {
		return Query{}, &ParseError{
			Kind:    KindCategory,
			Input:   command,
			Message: "Error: log type must be one of " + logstore.JoinCategories(categories),
			Err:     logstore.ErrUnknownCategory,
		}
	}

	cmd := strings.TrimSpace(parts[1])
	switch {
	case strings.HasPrefix(cmd, "last"):
		n, err := parseCount(cmd)
		if err != nil {
			return Query{}, &ParseError{
				Kind:    KindCount,
				Input:   command,
				Message: "Error: Use format 'last N' where N is a positive number",
				Err:     err,
			}
		}
		return Query{Category: category, Last: n}, nil
	case cmd == "all":
		return Query{Category: category}, nil
	default:
		return Query{}, &ParseError{
			Kind:    KindCommand,
			Input:   command,
			Message: "Error: Command must be 'last N' or 'all'",
		}
	}
}

// KindOf returns the kind of a parse error and whether err is one.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

func lookup(token string, categories []logstore.Category) (logstore.Category, bool) {
	for _, c := range categories {
		if string(c) == token {
			return c, true
		}
	}
	return "", false
}

// parseCount reads N from "last N". N must be a positive integer.
func parseCount(cmd string) (int, error) {
	fields := strings.Fields(cmd)
	if len(fields) < 2 {
		return 0, errors.New("missing count")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", logstore.ErrInvalidCount, n)
	}
	return n, nil
}
