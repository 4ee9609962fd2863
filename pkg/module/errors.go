package module

import (
	"fmt"
	"strings"
)

// NotDeclaredError reports a component that is used but not declared by
// any loaded module.
type NotDeclaredError struct {
	Component string

	// Role is how the component was referenced: "component",
	// "entry component" or "bootstrap component".
	Role string

	// Module is the module that referenced the component, if any.
	Module string
}

func (e *NotDeclaredError) Error() string {
	msg := fmt.Sprintf("Component %s is not part of any NgModule or the module has not been imported into your module.", e.Component)
	if e.Module != "" {
		msg += fmt.Sprintf(" It is listed as %s of %s.", withArticle(e.Role), e.Module)
	}
	return msg
}

// Code returns the registered error code.
func (e *NotDeclaredError) Code() string { return "E100" }

func withArticle(s string) string {
	if s == "" {
		return "a component"
	}
	if strings.ContainsRune("aeiou", rune(s[0])) {
		return "an " + s
	}
	return "a " + s
}

// DuplicateDeclarationError reports a declarable declared by two modules.
type DuplicateDeclarationError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("Type %s is part of the declarations of 2 modules: %s and %s", e.Name, e.First, e.Second)
}

// Code returns the registered error code.
func (e *DuplicateDeclarationError) Code() string { return "E101" }

// SelectorError reports a selector that could not be parsed.
type SelectorError struct {
	Name     string
	Selector string
	Err      error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("%s: invalid selector %q: %v", e.Name, e.Selector, e.Err)
}

func (e *SelectorError) Unwrap() error { return e.Err }

// Code returns the registered error code.
func (e *SelectorError) Code() string { return "E103" }
