package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryModule   Category = "module"
	CategorySchema   Category = "schema"
	CategoryTemplate Category = "template"
	CategoryConfig   Category = "config"
	CategorySource   Category = "source"
	CategoryRuntime  Category = "runtime"
	CategoryCLI      Category = "cli"
)

// Location represents a position inside a template or file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	file := l.File
	if file == "" {
		file = "<template>"
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", file, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", file, l.Line)
}

// Error is a structured error with a code, location and fix suggestion.
type Error struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// ContextStart is the line number of Context[0].
	ContextStart int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Coder is implemented by typed errors that map to a registered code.
type Coder interface {
	error
	Code() string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a location without source context.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithSource adds a location and extracts context lines from src.
func (e *Error) WithSource(file, src string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context, e.ContextStart = contextLines(src, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// contextLines returns the lines of src around targetLine.
func contextLines(src string, targetLine, contextSize int) ([]string, int) {
	if src == "" || targetLine <= 0 {
		return nil, 0
	}
	all := strings.Split(src, "\n")
	start := targetLine - contextSize/2
	if start < 1 {
		start = 1
	}
	end := targetLine + contextSize/2
	if end > len(all) {
		end = len(all)
	}
	if start > end {
		return nil, 0
	}
	return all[start-1 : end], start
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError converts err to an *Error. Typed errors implementing Coder keep
// their own code and message as detail; anything else gets fallback.
func FromError(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	code := fallback
	var c Coder
	if errors.As(err, &c) {
		code = c.Code()
	}
	return New(code).WithDetail(err.Error()).Wrap(err)
}
