package vtest

import (
	"errors"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/view"
)

func app(template string) *module.ComponentDef {
	return &module.ComponentDef{
		Name:     "App",
		Template: template,
		New:      func() map[string]any { return map[string]any{"name": "World"} },
	}
}

func TestFixture(t *testing.T) {
	def := app(`<p class="greeting">Hello {{name}}</p>`)
	f := NewBed(t).WithDeclarations(def).CreateComponent(def)

	ExpectTypes(t, f.RootNodes(), dom.ElementNode)
	ExpectContains(t, f.RootNodes(), "Hello World")
	ExpectElement(t, f.RootNodes(), "p")
	ExpectAttribute(t, f.RootNodes(), "class", "greeting")

	f.Set("name", "Gopher").DetectChanges()
	ExpectTexts(t, f.RootNodes(), "Hello Gopher")
	ExpectNotContains(t, f.RootNodes(), "World")
	if got := f.HTML(); got != `<p class="greeting">Hello Gopher</p>` {
		t.Errorf("HTML() = %q", got)
	}
}

func TestEmbed(t *testing.T) {
	tests := []struct {
		name     string
		template string
		opts     []runtime.Option
		want     []dom.NodeType
	}{
		{
			name:     "empty view",
			template: `<ng-template #tpl></ng-template>`,
			want:     nil,
		},
		{
			name:     "empty view legacy",
			template: `<ng-template #tpl></ng-template>`,
			opts:     []runtime.Option{runtime.WithFlattener(view.Legacy{})},
			want:     []dom.NodeType{dom.CommentNode},
		},
		{
			name:     "element container",
			template: `<ng-template #tpl><ng-container>text</ng-container></ng-template>`,
			want:     []dom.NodeType{dom.CommentNode, dom.TextNode},
		},
		{
			name:     "conditional view",
			template: `<ng-template #tpl><ng-template [ngIf]="true">text|</ng-template>SUFFIX</ng-template>`,
			want:     []dom.NodeType{dom.CommentNode, dom.TextNode, dom.TextNode},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := app(tt.template)
			f := NewBed(t).WithDeclarations(def).WithOptions(tt.opts...).CreateComponent(def)
			ExpectTypes(t, f.Embed("tpl", nil).RootNodes(), tt.want...)
		})
	}
}

func TestEmbedContext(t *testing.T) {
	def := app(`<ng-template #row let-item="item"><li>{{item}}</li></ng-template>`)
	f := NewBed(t).WithDeclarations(def).CreateComponent(def)

	v := f.Embed("row", map[string]any{"item": "milk"})
	if got := RenderToString(v.RootNodes()); got != "<li>milk</li>" {
		t.Errorf("RenderToString() = %q", got)
	}
}

func TestBedSchemas(t *testing.T) {
	def := app(`<my-widget></my-widget>`)

	_, err := NewBed(t).WithDeclarations(def).TryCreateComponent(def)
	var unknown *schema.UnknownSchemaMemberError
	if !errors.As(err, &unknown) {
		t.Fatalf("TryCreateComponent() error = %v, want UnknownSchemaMemberError", err)
	}

	f := NewBed(t).WithDeclarations(def).WithSchemas(schema.CustomElements).CreateComponent(def)
	ExpectElement(t, f.RootNodes(), "my-widget")
}

func TestBedOverrideTemplate(t *testing.T) {
	def := app(`<p>original</p>`)
	f := NewBed(t).WithDeclarations(def).OverrideTemplate(def, `<b>{{name}}</b>`).CreateComponent(def)
	ExpectTexts(t, f.RootNodes(), "World")
}

func TestBedEntryComponents(t *testing.T) {
	entry := &module.ComponentDef{Name: "Dialog", Template: `dialog`}
	_, err := NewBed(t).WithEntryComponents(entry).WithDeclarations(app("")).TryCreateComponent(entry)
	var nd *module.NotDeclaredError
	if !errors.As(err, &nd) {
		t.Fatalf("TryCreateComponent() error = %v, want NotDeclaredError", err)
	}

	f := NewBed(t).WithDeclarations(entry).WithEntryComponents(entry).CreateComponent(entry)
	ExpectTexts(t, f.RootNodes(), "dialog")
}

func TestRenderToString(t *testing.T) {
	nodes := []*dom.Node{dom.NewComment("container"), dom.NewText("a<b")}
	if got := RenderToString(nodes); got != "<!--container-->a&lt;b" {
		t.Errorf("RenderToString() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abc", 3); got != "abc" {
		t.Errorf("truncate() = %q", got)
	}
}
