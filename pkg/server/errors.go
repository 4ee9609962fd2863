package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/template"
)

// ErrBadRequest is returned for request bodies that are not valid JSON.
var ErrBadRequest = errors.New("server: invalid request body")

// ErrShuttingDown is returned for preview sessions requested after
// Shutdown.
var ErrShuttingDown = errors.New("server: shutting down")

// UnknownComponentError reports a component name the catalog does not
// define.
type UnknownComponentError struct {
	Name string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown component %s", e.Name)
}

// Code returns the registered error code.
func (e *UnknownComponentError) Code() string { return "E150" }

type coder interface {
	Code() string
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func newErrorResponse(err error) errorResponse {
	resp := errorResponse{Error: err.Error()}
	var c coder
	if errors.As(err, &c) {
		resp.Code = c.Code()
	}
	return resp
}

// statusOf maps err to an HTTP status.
func statusOf(err error) int {
	var (
		unknown   *UnknownComponentError
		ref       *runtime.UnknownRefError
		notDecl   *module.NotDeclaredError
		dup       *module.DuplicateDeclarationError
		sel       *module.SelectorError
		member    *schema.UnknownSchemaMemberError
		parse     *template.ParseError
		destroyed *runtime.DestroyedError
	)
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrShuttingDown):
		return http.StatusServiceUnavailable
	case errors.As(err, &unknown), errors.As(err, &ref):
		return http.StatusNotFound
	case errors.As(err, &notDecl), errors.As(err, &dup), errors.As(err, &sel),
		errors.As(err, &member), errors.As(err, &parse):
		return http.StatusUnprocessableEntity
	case errors.As(err, &destroyed):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}
