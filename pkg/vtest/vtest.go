package vtest

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/schema"
)

// Bed allows fluent construction of a testing module and the environment
// that runs it.
type Bed struct {
	t         testing.TB
	mod       *module.ModuleDef
	opts      []runtime.Option
	overrides []override
	env       *runtime.Environment
}

type override struct {
	def *module.ComponentDef
	src string
}

// NewBed creates a bed with an empty testing module.
//
// Example:
//
//	f := vtest.NewBed(t).
//	    WithDeclarations(app, card).
//	    CreateComponent(app)
func NewBed(t testing.TB) *Bed {
	return &Bed{
		t:   t,
		mod: &module.ModuleDef{Name: "TestingModule"},
	}
}

// WithDeclarations declares components in the testing module.
func (b *Bed) WithDeclarations(defs ...*module.ComponentDef) *Bed {
	b.mod.Declarations = append(b.mod.Declarations, defs...)
	return b
}

// WithDirectives declares directives in the testing module.
func (b *Bed) WithDirectives(defs ...*module.DirectiveDef) *Bed {
	b.mod.Directives = append(b.mod.Directives, defs...)
	return b
}

// WithImports imports modules into the testing module.
func (b *Bed) WithImports(mods ...*module.ModuleDef) *Bed {
	b.mod.Imports = append(b.mod.Imports, mods...)
	return b
}

// WithEntryComponents lists components created dynamically.
func (b *Bed) WithEntryComponents(defs ...*module.ComponentDef) *Bed {
	b.mod.EntryComponents = append(b.mod.EntryComponents, defs...)
	return b
}

// WithSchemas sets the testing module's schemas.
//
// Example:
//
//	vtest.NewBed(t).WithSchemas(schema.CustomElements)
func (b *Bed) WithSchemas(schemas ...schema.Schema) *Bed {
	b.mod.Schemas = append(b.mod.Schemas, schemas...)
	return b
}

// WithOptions passes options to the environment.
//
// Example:
//
//	vtest.NewBed(t).WithOptions(runtime.WithFlattener(view.Legacy{}))
func (b *Bed) WithOptions(opts ...runtime.Option) *Bed {
	b.opts = append(b.opts, opts...)
	return b
}

// OverrideTemplate replaces def's template once the bed is configured.
func (b *Bed) OverrideTemplate(def *module.ComponentDef, src string) *Bed {
	b.overrides = append(b.overrides, override{def, src})
	return b
}

// Module returns the testing module.
func (b *Bed) Module() *module.ModuleDef {
	return b.mod
}

// Environment configures the environment on first use and returns it.
// Configuration errors fail the test.
func (b *Bed) Environment() *runtime.Environment {
	b.t.Helper()
	if b.env != nil {
		return b.env
	}
	env := runtime.New(b.opts...)
	if err := env.Configure(b.mod); err != nil {
		b.t.Fatalf("configure testing module: %v", err)
	}
	for _, o := range b.overrides {
		env.OverrideTemplate(o.def, o.src)
	}
	b.env = env
	return env
}

// TryCreateComponent creates def and runs change detection. Use it when
// creation is expected to fail.
func (b *Bed) TryCreateComponent(def *module.ComponentDef) (*Fixture, error) {
	b.t.Helper()
	ref, err := b.Environment().CreateComponent(context.Background(), def)
	if err != nil {
		return nil, err
	}
	b.t.Cleanup(ref.Destroy)
	ref.DetectChanges()
	return &Fixture{t: b.t, Ref: ref}, nil
}

// CreateComponent creates def and runs change detection. Errors fail the
// test.
func (b *Bed) CreateComponent(def *module.ComponentDef) *Fixture {
	b.t.Helper()
	f, err := b.TryCreateComponent(def)
	if err != nil {
		b.t.Fatalf("create %s: %v", def.Name, err)
	}
	return f
}

// Fixture wraps a created component.
type Fixture struct {
	t   testing.TB
	Ref *runtime.ComponentRef
}

// Set updates the component state. Call DetectChanges to apply it.
func (f *Fixture) Set(key string, v any) *Fixture {
	f.Ref.Set(key, v)
	return f
}

// DetectChanges runs change detection.
func (f *Fixture) DetectChanges() *Fixture {
	f.Ref.DetectChanges()
	return f
}

// RootNodes returns the root nodes of the component's view.
func (f *Fixture) RootNodes() []*dom.Node {
	return f.Ref.RootNodes()
}

// HTML renders the root nodes.
func (f *Fixture) HTML() string {
	return RenderToString(f.RootNodes())
}

// Embed creates an embedded view of the template #ref with ctx and runs
// change detection on it. An unknown ref fails the test.
//
// Example:
//
//	v := f.Embed("row", map[string]any{"item": "milk"})
//	vtest.ExpectTypes(t, v.RootNodes(), dom.ElementNode)
func (f *Fixture) Embed(ref string, ctx map[string]any) *runtime.ViewRef {
	f.t.Helper()
	tpl, err := f.Ref.Template(ref)
	if err != nil {
		f.t.Fatalf("template %s: %v", ref, err)
	}
	v := tpl.CreateEmbeddedView(ctx)
	f.t.Cleanup(v.Destroy)
	v.DetectChanges()
	return v
}

// RenderToString renders nodes and returns the HTML string, or "" when
// rendering fails.
//
// Example:
//
//	html := vtest.RenderToString(v.RootNodes())
func RenderToString(nodes []*dom.Node) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(nodes)
	if err != nil {
		return ""
	}
	return html
}

// ExpectTypes asserts the node types of nodes, in order.
//
// Example:
//
//	vtest.ExpectTypes(t, v.RootNodes(), dom.CommentNode, dom.TextNode)
func ExpectTypes(t testing.TB, nodes []*dom.Node, want ...dom.NodeType) {
	t.Helper()
	if got := dom.Types(nodes); !slices.Equal(got, want) {
		t.Errorf("node types = %v, want %v", got, want)
	}
}

// ExpectTexts asserts the text content of each node, in order.
//
// Example:
//
//	vtest.ExpectTexts(t, v.RootNodes(), "Header", "Item one", "Item two")
func ExpectTexts(t testing.TB, nodes []*dom.Node, want ...string) {
	t.Helper()
	got := make([]string, len(nodes))
	for i, n := range nodes {
		got[i] = n.TextContent()
	}
	if !slices.Equal(got, want) {
		t.Errorf("node texts = %q, want %q", got, want)
	}
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, f.RootNodes(), "Welcome")
func ExpectContains(t testing.TB, nodes []*dom.Node, expected string) {
	t.Helper()
	html := RenderToString(nodes)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, nodes []*dom.Node, unexpected string) {
	t.Helper()
	html := RenderToString(nodes)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, nodes []*dom.Node, tag string) {
	t.Helper()
	html := RenderToString(nodes)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, nodes []*dom.Node, attr, value string) {
	t.Helper()
	html := RenderToString(nodes)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
