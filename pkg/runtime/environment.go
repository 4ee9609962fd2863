package runtime

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/language"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/source"
	"github.com/vango-dev/vtree/pkg/telemetry"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/view"
)

// Environment creates components from a configured module tree.
// Configure and CreateComponent are safe for concurrent use; the components
// it returns are not.
type Environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	loader  source.Loader
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	locale  language.Tag

	// flattener computes public root nodes; dom keeps element children in
	// sync and is always the standard strategy.
	flattener view.Flattener
	dom       view.Flattener

	mu       sync.Mutex
	registry *module.Registry
	root     *module.ModuleDef
}

// Option configures an Environment.
type Option func(*Environment)

// WithConfig sets the configuration. Flatten strategy, validation severity,
// default schemas, whitespace handling and locale are taken from it.
func WithConfig(cfg *config.Config) Option {
	return func(e *Environment) {
		e.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// WithLoader sets the loader used for templateUrl.
func WithLoader(l source.Loader) Option {
	return func(e *Environment) {
		e.loader = l
	}
}

// WithMetrics records compilations, diagnostics, creations and flattening.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Environment) {
		e.metrics = m
	}
}

// WithTracer traces component creation and compilation.
func WithTracer(t *telemetry.Tracer) Option {
	return func(e *Environment) {
		e.tracer = t
	}
}

// WithFlattener overrides the configured flatten strategy.
func WithFlattener(f view.Flattener) Option {
	return func(e *Environment) {
		e.flattener = f
	}
}

// New creates an Environment. Call Configure before creating components;
// an unconfigured environment behaves as if configured with an empty root
// module.
func New(opts ...Option) *Environment {
	e := &Environment{dom: view.Standard{}}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg == nil {
		e.cfg = config.New()
	}
	if e.logger == nil {
		e.logger = slog.Default().With("component", "runtime")
	}
	if e.flattener == nil {
		f, err := view.StrategyFor(e.cfg.Flatten.Strategy)
		if err != nil {
			e.logger.Warn("unknown flatten strategy, using standard", "strategy", e.cfg.Flatten.Strategy)
			f = view.Standard{}
		}
		e.flattener = f
	}
	e.flattener = telemetry.Instrument(e.flattener, e.metrics)
	e.locale = e.cfg.Locale()
	return e
}

// Config returns the environment's configuration.
func (e *Environment) Config() *config.Config { return e.cfg }

// Flattener returns the strategy used for RootNodes.
func (e *Environment) Flattener() view.Flattener { return e.flattener }

// Configure sets the root module and loads it with everything it imports.
// Like a platform bootstrap module, the root module implicitly imports
// CommonModule. Configure replaces any earlier configuration, including
// template overrides.
func (e *Environment) Configure(mod *module.ModuleDef) error {
	root := &module.ModuleDef{Name: "RootModule"}
	if mod != nil {
		cp := *mod
		root = &cp
	}
	root.Imports = append([]*module.ModuleDef{CommonModule}, root.Imports...)

	reg := module.NewRegistry(
		module.WithLoader(e.loader),
		module.WithValidator(schema.New(
			schema.WithSeverity(e.cfg.Severity()),
			schema.WithLogger(e.logger),
			schema.WithObserver(func(d *schema.UnknownSchemaMemberError) {
				e.metrics.RecordDiagnostic(d.Code())
			}),
		)),
		module.WithPreserveWhitespaces(e.cfg.Template.PreserveWhitespaces),
		module.WithDefaultSchemas(e.cfg.Schemas()...),
		module.WithMetrics(e.metrics),
		module.WithTracer(e.tracer),
		module.WithLogger(e.logger),
	)
	if err := reg.Load(root); err != nil {
		return err
	}

	e.mu.Lock()
	e.registry, e.root = reg, root
	e.mu.Unlock()
	return nil
}

// Registry returns the registry of the current configuration.
func (e *Environment) Registry() *module.Registry {
	e.mu.Lock()
	reg := e.registry
	e.mu.Unlock()
	if reg == nil {
		if err := e.Configure(nil); err != nil {
			// An empty root module only imports CommonModule.
			panic(err)
		}
		return e.Registry()
	}
	return reg
}

// Root returns the configured root module.
func (e *Environment) Root() *module.ModuleDef {
	e.Registry()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// OverrideTemplate replaces the template of def for the current
// configuration.
func (e *Environment) OverrideTemplate(def *module.ComponentDef, src string) {
	e.Registry().OverrideTemplate(def, src)
}

// CreateComponent verifies the module tree, compiles def and everything it
// uses, and instantiates it. Bindings are evaluated by the first
// DetectChanges, not here.
//
// Errors: *module.NotDeclaredError when def or an entry/bootstrap component
// is not declared, *schema.UnknownSchemaMemberError in error mode,
// *template.ParseError and *source.LoadError.
func (e *Environment) CreateComponent(ctx context.Context, def *module.ComponentDef) (ref *ComponentRef, err error) {
	ctx, end := e.tracer.Start(ctx, "vtree.create", attribute.String("vtree.component", def.Name))
	defer func() {
		e.metrics.RecordCreate(def.Name, err)
		end(err)
	}()

	reg := e.Registry()
	if err := reg.Verify(); err != nil {
		return nil, err
	}
	compiled, err := reg.Resolve(ctx, def)
	if err != nil {
		return nil, err
	}

	t := &tree{
		env:      e,
		compiled: make(map[*module.ComponentDef]*module.Compiled),
		states:   make(map[*view.View]*viewState),
	}
	if err := t.resolve(ctx, reg, compiled); err != nil {
		return nil, err
	}

	tag := compiled.Selector.Tag()
	if tag == "" {
		tag = "ng-component"
	}
	host := dom.NewElement(tag)
	ref = t.newComponent(compiled, host, view.NewElement(host), nil, nil)
	ref.root = true
	e.logger.Debug("component created", "component", def.Name, "module", compiled.Module.Name)
	return ref, nil
}

// tree is the state shared by a root component and everything created
// beneath it.
type tree struct {
	env      *Environment
	compiled map[*module.ComponentDef]*module.Compiled
	states   map[*view.View]*viewState
}

// resolve compiles every component c's template can instantiate, so that
// building views never has to.
func (t *tree) resolve(ctx context.Context, reg *module.Registry, c *module.Compiled) error {
	if _, ok := t.compiled[c.Def]; ok {
		return nil
	}
	t.compiled[c.Def] = c

	var children []*module.ComponentDef
	template.Walk(c.Doc.Nodes, func(n template.Node) bool {
		if el, ok := n.(*template.Element); ok {
			attrs := template.AttributeNames(el.Attrs, el.Inputs)
			if def := c.Scope.MatchComponent(el.Name, attrs); def != nil {
				children = append(children, def)
			}
		}
		return true
	})
	for _, def := range children {
		if _, ok := t.compiled[def]; ok {
			continue
		}
		child, err := reg.Resolve(ctx, def)
		if err != nil {
			return err
		}
		if err := t.resolve(ctx, reg, child); err != nil {
			return err
		}
	}
	return nil
}
