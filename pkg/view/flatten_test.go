package view

import (
	"reflect"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
)

func text(s string) *Node    { return NewText(dom.NewText(s)) }
func elem(tag string) *Node  { return NewElement(dom.NewElement(tag)) }
func comment(s string) *Node { return NewComment(dom.NewComment(s)) }

func types(nodes []*dom.Node) []dom.NodeType { return dom.Types(nodes) }

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindComment, "Comment"},
		{KindContainer, "Container"},
		{KindElementContainer, "ElementContainer"},
		{KindProjection, "Projection"},
		{KindICU, "ICU"},
		{Kind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFlattenEmptyView(t *testing.T) {
	v := New()
	if got := (Standard{}).Flatten(v); len(got) != 0 {
		t.Errorf("standard: empty view flattened to %d nodes, want 0", len(got))
	}

	got := (Legacy{}).Flatten(v)
	if len(got) != 1 || got[0].Type != dom.CommentNode {
		t.Fatalf("legacy: empty view = %v, want one comment", types(got))
	}
	again := (Legacy{}).Flatten(v)
	if again[0] != got[0] {
		t.Error("legacy placeholder should be stable across calls")
	}
}

func TestFlattenStaticNodes(t *testing.T) {
	placeholder := NewAnchor(dom.NewComment("container"))
	v := New(elem("div"), text("some text"), placeholder)

	got := Standard{}.Flatten(v)
	want := []dom.NodeType{dom.ElementNode, dom.TextNode, dom.CommentNode}
	if !reflect.DeepEqual(types(got), want) {
		t.Fatalf("Flatten() = %v, want %v", types(got), want)
	}
	if got[2] != placeholder.Native {
		t.Error("empty placeholder should contribute exactly its own comment")
	}
}

func TestFlattenDescendsIntoContainers(t *testing.T) {
	// <ng-template [ngIf]>text|</ng-template>SUFFIX
	anchor := NewAnchor(dom.NewComment("container"))
	if err := anchor.Container.Append(New(text("text|"))); err != nil {
		t.Fatal(err)
	}
	v := New(anchor, text("SUFFIX"))

	got := Standard{}.Flatten(v)
	want := []dom.NodeType{dom.CommentNode, dom.TextNode, dom.TextNode}
	if !reflect.DeepEqual(types(got), want) {
		t.Fatalf("Flatten() = %v, want %v", types(got), want)
	}
	if got[1].Data != "text|" || got[2].Data != "SUFFIX" {
		t.Errorf("unexpected text order: %q, %q", got[1].Data, got[2].Data)
	}
}

func TestFlattenElementHostedContainer(t *testing.T) {
	// <div [ngTemplateOutlet]="tpl"></div>SUFFIX
	host := elem("div")
	host.Attach().Append(New(text("text")))
	v := New(host, text("SUFFIX"))

	want := []dom.NodeType{dom.ElementNode, dom.TextNode, dom.TextNode}
	if got := types(Standard{}.Flatten(v)); !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestFlattenElementContainer(t *testing.T) {
	// <ng-container>text</ng-container>
	v := New(NewElementContainer(dom.NewComment("ng-container"), text("text")))
	want := []dom.NodeType{dom.CommentNode, dom.TextNode}
	if got := types(Standard{}.Flatten(v)); !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestFlattenICU(t *testing.T) {
	icu := NewICU(dom.NewComment("ICU"))
	icu.Container.Append(New(text("just now")))
	v := New(NewElementContainer(dom.NewComment("ng-container"), text("Updated "), icu))

	got := Standard{}.Flatten(v)
	want := []dom.NodeType{dom.CommentNode, dom.TextNode, dom.CommentNode, dom.TextNode}
	if !reflect.DeepEqual(types(got), want) {
		t.Fatalf("Flatten() = %v, want %v", types(got), want)
	}
	if got[3].Data != "just now" {
		t.Errorf("selected case text = %q", got[3].Data)
	}

	// The legacy strategy keeps the standard ICU rule.
	if got := types(Legacy{}.Flatten(v)); !reflect.DeepEqual(got, want) {
		t.Errorf("legacy Flatten() = %v, want %v", got, want)
	}
}

func TestFlattenProjection(t *testing.T) {
	a, b := elem("button"), elem("button")
	header := text("Header")
	v := New(header, NewProjection(a, b))

	got := Standard{}.Flatten(v)
	want := []*dom.Node{header.Native, a.Native, b.Native}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("projected nodes not spliced in order")
	}
}

func TestFlattenNestedPreOrder(t *testing.T) {
	inner := NewAnchor(dom.NewComment("inner"))
	inner.Container.Append(New(text("deep")))
	outer := NewAnchor(dom.NewComment("outer"))
	outer.Container.Append(New(text("a"), inner, text("b")))
	v := New(outer, text("tail"))

	got := Standard{}.Flatten(v)
	var data []string
	for _, n := range got {
		data = append(data, n.Data)
	}
	want := []string{"outer", "a", "inner", "deep", "b", "tail"}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("Flatten() = %v, want %v", data, want)
	}
}

func TestFlattenInsertionOrder(t *testing.T) {
	anchor := NewAnchor(dom.NewComment(""))
	first, second, third := New(text("1")), New(text("2")), New(text("3"))
	anchor.Container.Append(first)
	anchor.Container.Append(third)
	if _, err := anchor.Container.Insert(second, 1); err != nil {
		t.Fatal(err)
	}

	got := Standard{}.Flatten(New(anchor))
	var data []string
	for _, n := range got[1:] {
		data = append(data, n.Data)
	}
	if !reflect.DeepEqual(data, []string{"1", "2", "3"}) {
		t.Errorf("views out of insertion order: %v", data)
	}
}

func TestFlattenLegacyEmptyNestedView(t *testing.T) {
	anchor := NewAnchor(dom.NewComment("anchor"))
	anchor.Container.Append(New())
	v := New(anchor)

	if got := len(Standard{}.Flatten(v)); got != 1 {
		t.Errorf("standard = %d nodes, want 1", got)
	}
	if got := len(Legacy{}.Flatten(v)); got != 2 {
		t.Errorf("legacy = %d nodes, want 2", got)
	}
}

func TestFlattenIdempotent(t *testing.T) {
	anchor := NewAnchor(dom.NewComment(""))
	anchor.Container.Append(New(text("x"), elem("p")))
	v := New(comment("c"), anchor, text("y"))

	for _, f := range []Flattener{Standard{}, Legacy{}} {
		first := f.Flatten(v)
		second := f.Flatten(v)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: repeated Flatten differs", f.Name())
		}
	}
}

func TestFlattenNodes(t *testing.T) {
	anchor := NewAnchor(dom.NewComment(""))
	anchor.Container.Append(New(text("x")))
	got := Standard{}.FlattenNodes([]*Node{text("a"), anchor})
	if len(got) != 3 {
		t.Errorf("FlattenNodes() = %d nodes, want 3", len(got))
	}
}

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", StrategyStandard, false},
		{"standard", StrategyStandard, false},
		{"legacy", StrategyLegacy, false},
		{"ivy", "", true},
	}
	for _, tt := range tests {
		f, err := StrategyFor(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("StrategyFor(%q) error = %v", tt.name, err)
			continue
		}
		if err == nil && f.Name() != tt.want {
			t.Errorf("StrategyFor(%q).Name() = %q, want %q", tt.name, f.Name(), tt.want)
		}
	}
}
