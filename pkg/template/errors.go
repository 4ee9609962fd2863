package template

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed template.
type ParseError struct {
	File   string
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "template"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Msg)
}

// Unwrap returns the underlying expression error, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// Code returns the registered error code.
func (e *ParseError) Code() string {
	var ee *ExpressionError
	if errors.As(e.Err, &ee) {
		return ee.Code()
	}
	return "E120"
}

// ExpressionError reports a malformed binding expression.
type ExpressionError struct {
	Expr   string
	Offset int
	Msg    string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("%s at column %d in [%s]", e.Msg, e.Offset+1, e.Expr)
}

// Code returns the registered error code.
func (e *ExpressionError) Code() string { return "E121" }
