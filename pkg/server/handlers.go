package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/runtime"
)

// RenderRequest is the body of render and template requests.
type RenderRequest struct {
	// State is merged into the component's initial state.
	State map[string]any `json:"state,omitempty"`

	// Context is the embedded view context of template requests.
	Context map[string]any `json:"context,omitempty"`
}

// RenderResponse describes rendered root nodes.
type RenderResponse struct {
	Component string            `json:"component"`
	Template  string            `json:"template,omitempty"`
	HTML      string            `json:"html"`
	RootNodes []render.NodeInfo `json:"rootNodes"`
}

// ComponentInfo is an entry of GET /components.
type ComponentInfo struct {
	Name     string   `json:"name"`
	Selector string   `json:"selector,omitempty"`
	Inputs   []string `json:"inputs,omitempty"`
	Module   string   `json:"module,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	reg := s.env.Registry()
	names := s.catalog.ComponentNames()
	out := make([]ComponentInfo, 0, len(names))
	for _, name := range names {
		def, ok := s.catalog.Component(name)
		if !ok {
			continue
		}
		info := ComponentInfo{Name: def.Name, Selector: def.Selector, Inputs: def.Inputs}
		if m, ok := reg.ModuleOf(def); ok {
			info.Module = m.Name
		}
		out = append(out, info)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ref, err := s.create(r.Context(), chi.URLParam(r, "name"), req.State)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer ref.Destroy()

	resp, err := s.response(ref.Def().Name, "", ref.RootNodes())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTemplateRoots(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ref, err := s.create(r.Context(), chi.URLParam(r, "name"), req.State)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer ref.Destroy()

	name := chi.URLParam(r, "ref")
	tpl, err := ref.Template(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := tpl.CreateEmbeddedView(req.Context)
	defer v.Destroy()
	v.DetectChanges()

	resp, err := s.response(ref.Def().Name, name, v.RootNodes())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// create instantiates the named component with state applied and runs
// change detection once.
func (s *Server) create(ctx context.Context, name string, state map[string]any) (*runtime.ComponentRef, error) {
	def, ok := s.catalog.Component(name)
	if !ok {
		return nil, &UnknownComponentError{Name: name}
	}
	ref, err := s.env.CreateComponent(ctx, def)
	if err != nil {
		return nil, err
	}
	ref.SetState(state)
	ref.DetectChanges()
	return ref, nil
}

func (s *Server) response(component, tpl string, nodes []*dom.Node) (*RenderResponse, error) {
	html, err := s.renderer.RenderToString(nodes)
	if err != nil {
		return nil, err
	}
	return &RenderResponse{
		Component: component,
		Template:  tpl,
		HTML:      html,
		RootNodes: render.Describe(nodes),
	}, nil
}

// decode reads an optional RenderRequest body.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*RenderRequest, error) {
	var req RenderRequest
	if r.Body == nil || r.ContentLength == 0 {
		return &req, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return &req, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	s.writeJSON(w, status, newErrorResponse(err))
}
