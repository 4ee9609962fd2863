package schema

import "fmt"

// MemberKind classifies an unknown schema member.
type MemberKind int

const (
	UnknownElement MemberKind = iota
	UnknownProperty
	UnusedTemplateBinding
)

func (k MemberKind) String() string {
	switch k {
	case UnknownElement:
		return "element"
	case UnknownProperty:
		return "property"
	case UnusedTemplateBinding:
		return "template-binding"
	}
	return "unknown"
}

// UnknownSchemaMemberError reports an element or binding that is not
// recognised by the DOM schema, by a directive in scope or by a permissive
// schema.
type UnknownSchemaMemberError struct {
	Kind     MemberKind
	Element  string
	Property string
	File     string
	Line     int
	Column   int
}

func (e *UnknownSchemaMemberError) Error() string {
	switch e.Kind {
	case UnknownElement:
		return fmt.Sprintf("'%s' is not a known element", e.Element)
	case UnusedTemplateBinding:
		return fmt.Sprintf("Property binding %s not used by any directive on an embedded template", e.Property)
	}
	return fmt.Sprintf("Can't bind to '%s' since it isn't a known property of '%s'", e.Property, e.Element)
}

// Code returns the registered error code.
func (e *UnknownSchemaMemberError) Code() string {
	switch e.Kind {
	case UnknownElement:
		return "E110"
	case UnusedTemplateBinding:
		return "E112"
	}
	return "E111"
}

// Suggestion returns a hint for fixing the error.
func (e *UnknownSchemaMemberError) Suggestion() string {
	switch e.Kind {
	case UnknownElement:
		return fmt.Sprintf("If '%s' is a component, declare it in this module or import a module that exports it. "+
			"If it is a Web Component, add the custom-elements schema to the module.", e.Element)
	case UnusedTemplateBinding:
		return "Make sure the property name is spelled correctly and the directive is declared in or imported into the module."
	}
	return fmt.Sprintf("If '%s' is an input of a directive on '%s', declare that directive. "+
		"To bind an attribute use [attr.%s]. To allow any property add the no-errors schema.", e.Property, e.Element, e.Property)
}

// Position returns "file:line:col".
func (e *UnknownSchemaMemberError) Position() string {
	file := e.File
	if file == "" {
		file = "template"
	}
	return fmt.Sprintf("%s:%d:%d", file, e.Line, e.Column)
}
