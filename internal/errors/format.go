package errors

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ANSI styles for terminal output.
const (
	styleReset = "\033[0m"
	styleBold  = "\033[1m"
	styleRed   = "\033[31m"
	styleGreen = "\033[32m"
	styleBlue  = "\033[34m"
	styleCyan  = "\033[36m"
	styleGray  = "\033[90m"
)

var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() { colorEnabled = false }

// EnableColors enables ANSI color output.
func EnableColors() { colorEnabled = true }

// Check returns the mark printed before a passing item.
func Check() string { return style("✓", styleGreen) }

// Cross returns the mark printed before a failing item.
func Cross() string { return style("✗", styleRed) }

func style(s string, codes ...string) string {
	if !colorEnabled || len(codes) == 0 {
		return s
	}
	return strings.Join(codes, "") + s + styleReset
}

// detailWidth is the column Detail text is wrapped at.
const detailWidth = 72

// Format returns the error as a multi-line diagnostic:
//
//	error[E110]: Unknown element
//	  --> app.html:2:3
//	   |
//	 2 |   <custom-el></custom-el>
//	   |   ^
//	   |
//	   = The template uses a tag ...
//	   = hint: Add CUSTOM_ELEMENTS_SCHEMA
//	   = docs: https://vtree.dev/docs/errors/E110
func (e *Error) Format() string {
	var b strings.Builder
	e.writeTo(&b)
	return b.String()
}

func (e *Error) writeTo(b *strings.Builder) {
	head := "error"
	if e.Code != "" {
		head += "[" + e.Code + "]"
	}
	b.WriteString(style(head, styleBold, styleRed))
	b.WriteString(style(": "+e.Message, styleBold))
	b.WriteByte('\n')

	// The gutter fits the widest line number shown.
	last := e.ContextStart + len(e.Context) - 1
	if e.Location != nil && e.Location.Line > last {
		last = e.Location.Line
	}
	gutter := strings.Repeat(" ", len(strconv.Itoa(last)))
	bar := style(gutter+" |", styleBlue)

	if e.Location != nil {
		fmt.Fprintf(b, "%s%s %s\n", gutter, style("-->", styleBlue), style(e.Location.String(), styleCyan))
	}
	if e.Location != nil && len(e.Context) > 0 {
		b.WriteString(bar + "\n")
		for i, line := range e.Context {
			n := e.ContextStart + i
			num := fmt.Sprintf("%*d |", len(gutter), n)
			fmt.Fprintf(b, "%s %s\n", style(num, styleBlue), line)
			if n == e.Location.Line && e.Location.Column > 0 {
				fmt.Fprintf(b, "%s %s%s\n", bar, strings.Repeat(" ", e.Location.Column-1), style("^", styleBold, styleRed))
			}
		}
	}

	notes := wrapText(e.Detail, detailWidth)
	if e.Suggestion != "" {
		notes = append(notes, "hint: "+e.Suggestion)
	}
	if e.DocURL != "" {
		notes = append(notes, "docs: "+e.DocURL)
	}
	if len(notes) > 0 {
		b.WriteString(bar + "\n")
	}
	for _, n := range notes {
		fmt.Fprintf(b, "%s %s %s\n", gutter, style("=", styleBlue), n)
	}
}

// FormatCompact returns the error on one line, as
// "file:line:col: CODE: message".
func (e *Error) FormatCompact() string {
	var parts []string
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	return strings.Join(append(parts, e.Message), ": ")
}

// wrapText breaks text into lines of at most width bytes. Words longer
// than width get a line of their own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes err to w. An *Error in err's chain is written as a
// diagnostic, anything else as a single error line.
func Fprint(w io.Writer, err error) {
	var e *Error
	if errors.As(err, &e) {
		var b strings.Builder
		e.writeTo(&b)
		io.WriteString(w, b.String())
		return
	}
	fmt.Fprintf(w, "%s %s\n", style("error:", styleBold, styleRed), err.Error())
}
