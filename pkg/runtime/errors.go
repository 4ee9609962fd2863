package runtime

import "fmt"

// UnknownRefError reports a template reference that the component's view
// does not define.
type UnknownRefError struct {
	Component string
	Ref       string
}

func (e *UnknownRefError) Error() string {
	return fmt.Sprintf("component %s has no template reference #%s", e.Component, e.Ref)
}

// Code returns the registered error code.
func (e *UnknownRefError) Code() string { return "E151" }

// DestroyedError reports use of a destroyed view or component.
type DestroyedError struct {
	What string
}

func (e *DestroyedError) Error() string {
	return e.What + " has been destroyed"
}

// Code returns the registered error code.
func (e *DestroyedError) Code() string { return "E152" }
