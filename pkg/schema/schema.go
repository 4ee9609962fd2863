package schema

import (
	"fmt"
	"strings"
)

// Schema relaxes template validation for a module.
type Schema string

const (
	// CustomElements permits unknown elements whose tag contains a dash and
	// any property binding on them.
	CustomElements Schema = "custom-elements"

	// NoErrors permits any element and any property.
	NoErrors Schema = "no-errors"
)

// ParseSchema accepts the canonical names and their upper-case constant
// spellings (CUSTOM_ELEMENTS_SCHEMA, NO_ERRORS_SCHEMA).
func ParseSchema(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "custom-elements", "custom_elements", "custom_elements_schema":
		return CustomElements, nil
	case "no-errors", "no_errors", "no_errors_schema":
		return NoErrors, nil
	}
	return "", fmt.Errorf("schema: unknown schema %q", name)
}

// ParseSchemas parses a list of schema names.
func ParseSchemas(names []string) ([]Schema, error) {
	out := make([]Schema, 0, len(names))
	for _, n := range names {
		s, err := ParseSchema(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func has(schemas []Schema, s Schema) bool {
	for _, x := range schemas {
		if x == s {
			return true
		}
	}
	return false
}

// Severity decides what Validator.Check does with diagnostics.
type Severity int

const (
	// SeverityError returns the first diagnostic as an error.
	SeverityError Severity = iota

	// SeverityWarn logs every diagnostic and returns nil.
	SeverityWarn
)

// String returns the configuration spelling of the severity.
func (s Severity) String() string {
	if s == SeverityWarn {
		return "warn"
	}
	return "error"
}

// ParseSeverity parses "error" or "warn". The empty string means error.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "", "error":
		return SeverityError, nil
	case "warn", "warning":
		return SeverityWarn, nil
	}
	return SeverityError, fmt.Errorf("schema: unknown severity %q", s)
}
