package module

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/source"
	"github.com/vango-dev/vtree/pkg/telemetry"
	"github.com/vango-dev/vtree/pkg/template"
)

// Compiled is a component resolved to its parsed and validated template.
type Compiled struct {
	Def      *ComponentDef
	Module   *ModuleDef
	Doc      *template.Document
	Scope    *Scope
	Selector schema.Selector
}

// Registry records loaded modules and compiles components on demand.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	modules   []*ModuleDef
	loaded    map[*ModuleDef]bool
	declared  map[*ComponentDef]*ModuleDef
	owners    map[*DirectiveDef]*ModuleDef
	byName    map[string]*ComponentDef
	selectors map[Exportable]schema.Selector
	overrides map[*ComponentDef]string
	scopes    map[*ModuleDef]*Scope
	cache     map[*ComponentDef]*Compiled

	loader         source.Loader
	validator      *schema.Validator
	parseOpts      template.Options
	defaultSchemas []schema.Schema
	metrics        *telemetry.Metrics
	tracer         *telemetry.Tracer
	logger         *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLoader sets the loader used for TemplateURL.
func WithLoader(l source.Loader) Option {
	return func(r *Registry) {
		r.loader = l
	}
}

// WithValidator sets the template validator.
func WithValidator(v *schema.Validator) Option {
	return func(r *Registry) {
		r.validator = v
	}
}

// WithPreserveWhitespaces keeps whitespace-only text nodes in templates.
func WithPreserveWhitespaces(preserve bool) Option {
	return func(r *Registry) {
		r.parseOpts.PreserveWhitespaces = preserve
	}
}

// WithDefaultSchemas adds schemas applied to every module.
func WithDefaultSchemas(schemas ...schema.Schema) Option {
	return func(r *Registry) {
		r.defaultSchemas = append(r.defaultSchemas, schemas...)
	}
}

// WithMetrics records compilations.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithTracer traces Resolve.
func WithTracer(t *telemetry.Tracer) Option {
	return func(r *Registry) {
		r.tracer = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		loaded:    make(map[*ModuleDef]bool),
		declared:  make(map[*ComponentDef]*ModuleDef),
		owners:    make(map[*DirectiveDef]*ModuleDef),
		byName:    make(map[string]*ComponentDef),
		selectors: make(map[Exportable]schema.Selector),
		overrides: make(map[*ComponentDef]string),
		scopes:    make(map[*ModuleDef]*Scope),
		cache:     make(map[*ComponentDef]*Compiled),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "registry")
	}
	if r.validator == nil {
		r.validator = schema.New(
			schema.WithLogger(r.logger),
			schema.WithObserver(func(d *schema.UnknownSchemaMemberError) {
				r.metrics.RecordDiagnostic(d.Code())
			}),
		)
	}
	return r
}

// loadState is a copy of the registry's declaration tables that Load
// writes into. It replaces the registry's tables only when every module
// loads.
type loadState struct {
	modules   []*ModuleDef
	loaded    map[*ModuleDef]bool
	declared  map[*ComponentDef]*ModuleDef
	owners    map[*DirectiveDef]*ModuleDef
	byName    map[string]*ComponentDef
	selectors map[Exportable]schema.Selector
}

// Load registers modules and, transitively, everything they import.
// Loading a module twice is a no-op. When Load fails the registry is left
// as it was before the call.
func (r *Registry) Load(mods ...*ModuleDef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := &loadState{
		modules:   slices.Clone(r.modules),
		loaded:    maps.Clone(r.loaded),
		declared:  maps.Clone(r.declared),
		owners:    maps.Clone(r.owners),
		byName:    maps.Clone(r.byName),
		selectors: maps.Clone(r.selectors),
	}

	var load func(m *ModuleDef) error
	load = func(m *ModuleDef) error {
		if m == nil || st.loaded[m] {
			return nil
		}
		st.loaded[m] = true

		// Imports first, so their declarations are known.
		for _, imp := range m.Imports {
			if err := load(imp); err != nil {
				return err
			}
		}
		for _, x := range m.Exports {
			if sub, ok := x.(*ModuleDef); ok {
				if err := load(sub); err != nil {
					return err
				}
			}
		}

		for _, c := range m.Declarations {
			if err := st.declareComponent(m, c); err != nil {
				return err
			}
		}
		for _, d := range m.Directives {
			if err := st.declareDirective(m, d); err != nil {
				return err
			}
		}
		st.modules = append(st.modules, m)
		r.logger.Debug("module loaded", "module", m.Name,
			"declarations", len(m.Declarations), "directives", len(m.Directives))
		return nil
	}

	for _, m := range mods {
		if err := load(m); err != nil {
			return err
		}
	}

	r.modules = st.modules
	r.loaded = st.loaded
	r.declared = st.declared
	r.owners = st.owners
	r.byName = st.byName
	r.selectors = st.selectors
	clear(r.scopes)
	return nil
}

func (st *loadState) declareComponent(m *ModuleDef, c *ComponentDef) error {
	if prev, ok := st.declared[c]; ok && prev != m {
		return &DuplicateDeclarationError{Name: c.Name, First: prev.Name, Second: m.Name}
	}
	if other, ok := st.byName[c.Name]; ok && other != c {
		return &DuplicateDeclarationError{Name: c.Name, First: st.declared[other].Name, Second: m.Name}
	}
	if c.Selector != "" {
		sel, err := schema.ParseSelector(c.Selector)
		if err != nil {
			return &SelectorError{Name: c.Name, Selector: c.Selector, Err: err}
		}
		st.selectors[c] = sel
	}
	st.declared[c] = m
	st.byName[c.Name] = c
	return nil
}

func (st *loadState) declareDirective(m *ModuleDef, d *DirectiveDef) error {
	if prev, ok := st.owners[d]; ok && prev != m {
		return &DuplicateDeclarationError{Name: d.Name, First: prev.Name, Second: m.Name}
	}
	sel, err := schema.ParseSelector(d.Selector)
	if err != nil {
		return &SelectorError{Name: d.Name, Selector: d.Selector, Err: err}
	}
	st.selectors[d] = sel
	st.owners[d] = m
	return nil
}

// Verify checks that every entry and bootstrap component of every loaded
// module is declared by some loaded module. All failures are joined.
func (r *Registry) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	check := func(m *ModuleDef, role string, list []*ComponentDef) {
		for _, c := range list {
			if _, ok := r.declared[c]; !ok {
				errs = append(errs, &NotDeclaredError{Component: c.Name, Role: role, Module: m.Name})
			}
		}
	}
	for _, m := range r.modules {
		check(m, "entry component", m.EntryComponents)
		check(m, "bootstrap component", m.Bootstrap)
	}
	return errors.Join(errs...)
}

// ModuleOf returns the module declaring c.
func (r *Registry) ModuleOf(c *ComponentDef) (*ModuleDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.declared[c]
	return m, ok
}

// Component looks up a declared component by name.
func (r *Registry) Component(name string) (*ComponentDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// Components returns every declared component sorted by name.
func (r *Registry) Components() []*ComponentDef {
	r.mu.RLock()
	out := make([]*ComponentDef, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Modules returns the loaded modules in load order (imports first).
func (r *Registry) Modules() []*ModuleDef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*ModuleDef(nil), r.modules...)
}

// Scope returns the compilation scope of m.
func (r *Registry) Scope(m *ModuleDef) *Scope {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.scopes[m]; ok {
		return s
	}

	s := &Scope{Module: m, Schemas: m.Schemas}
	for _, c := range m.Declarations {
		s.add(c, r.selectors)
	}
	for _, d := range m.Directives {
		s.add(d, r.selectors)
	}
	for _, imp := range m.Imports {
		for _, x := range exported(imp, make(map[*ModuleDef]bool)) {
			s.add(x, r.selectors)
		}
	}
	r.scopes[m] = s
	return s
}

// OverrideTemplate replaces the template of c and drops its compiled form.
func (r *Registry) OverrideTemplate(c *ComponentDef, src string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[c] = src
	delete(r.cache, c)
}

// Resolve compiles c in the scope of its declaring module. The result is
// cached until the template is overridden.
func (r *Registry) Resolve(ctx context.Context, c *ComponentDef) (compiled *Compiled, err error) {
	ctx, end := r.tracer.Start(ctx, "vtree.resolve", attribute.String("vtree.component", c.Name))
	defer func() { end(err) }()

	r.mu.RLock()
	m, declared := r.declared[c]
	cached := r.cache[c]
	r.mu.RUnlock()

	if !declared {
		return nil, &NotDeclaredError{Component: c.Name, Role: "component"}
	}
	if cached != nil {
		return cached, nil
	}

	start := time.Now()
	compiled, err = r.compile(ctx, c, m)
	r.metrics.RecordCompile(c.Name, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if existing := r.cache[c]; existing != nil {
		compiled = existing
	} else {
		r.cache[c] = compiled
	}
	r.mu.Unlock()
	return compiled, nil
}

func (r *Registry) compile(ctx context.Context, c *ComponentDef, m *ModuleDef) (*Compiled, error) {
	src, file, err := r.templateSource(ctx, c)
	if err != nil {
		return nil, err
	}

	opts := r.parseOpts
	opts.File = file
	doc, err := template.Parse(src, opts)
	if err != nil {
		return nil, err
	}

	scope := r.Scope(m)
	schemas := append(append([]schema.Schema(nil), r.defaultSchemas...), m.Schemas...)
	if err := r.validator.Check(doc, scope.Schema(), schemas); err != nil {
		return nil, err
	}

	r.mu.RLock()
	sel := r.selectors[c]
	r.mu.RUnlock()

	r.logger.Debug("component compiled", "component", c.Name, "module", m.Name, "file", file)
	return &Compiled{Def: c, Module: m, Doc: doc, Scope: scope, Selector: sel}, nil
}

func (r *Registry) templateSource(ctx context.Context, c *ComponentDef) (src, file string, err error) {
	file = c.TemplateURL
	if file == "" {
		file = c.Name
	}

	r.mu.RLock()
	override, ok := r.overrides[c]
	r.mu.RUnlock()
	switch {
	case ok:
		return override, file, nil
	case c.Template != "" || c.TemplateURL == "":
		return c.Template, file, nil
	case r.loader == nil:
		return "", file, &source.LoadError{Path: c.TemplateURL, Err: errors.New("no template loader configured")}
	}

	src, err = r.loader.Load(ctx, c.TemplateURL)
	return src, file, err
}
