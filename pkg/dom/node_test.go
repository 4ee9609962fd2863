package dom

import "testing"

func TestNodeTypeString(t *testing.T) {
	tests := []struct {
		typ  NodeType
		want string
	}{
		{ElementNode, "Element"},
		{TextNode, "Text"},
		{CommentNode, "Comment"},
		{NodeType(0), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("NodeType.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeTypeMatchesDOM(t *testing.T) {
	if ElementNode != 1 || TextNode != 3 || CommentNode != 8 {
		t.Error("node type values must match DOM nodeType constants")
	}
}

func TestNodeName(t *testing.T) {
	tests := []struct {
		node *Node
		want string
	}{
		{NewElement("div"), "DIV"},
		{NewText("x"), "#text"},
		{NewComment("ng-container"), "#comment"},
		{&Node{}, ""},
	}
	for _, tt := range tests {
		if got := tt.node.NodeName(); got != tt.want {
			t.Errorf("NodeName() = %q, want %q", got, tt.want)
		}
	}
}

func TestTextContent(t *testing.T) {
	btn := NewElement("button")
	btn.Children = []*Node{NewText("Item "), NewComment("anchor"), NewText("one")}
	outer := NewElement("div")
	outer.Children = []*Node{btn, NewText("!")}

	if got := btn.TextContent(); got != "Item one" {
		t.Errorf("button TextContent() = %q", got)
	}
	if got := outer.TextContent(); got != "Item one!" {
		t.Errorf("div TextContent() = %q", got)
	}
	if got := NewComment("c").TextContent(); got != "c" {
		t.Errorf("comment TextContent() = %q", got)
	}

	var nilNode *Node
	if nilNode.TextContent() != "" {
		t.Error("nil TextContent should be empty")
	}
}

func TestAttrs(t *testing.T) {
	n := NewElement("a", Attr{Name: "href", Value: "/"})
	if v, ok := n.Attr("href"); !ok || v != "/" {
		t.Errorf("Attr(href) = %q, %v", v, ok)
	}
	n.SetAttr("href", "/home")
	n.SetAttr("title", "Home")
	if v, _ := n.Attr("href"); v != "/home" {
		t.Errorf("SetAttr should replace, got %q", v)
	}
	if len(n.Attrs) != 2 {
		t.Errorf("len(Attrs) = %d, want 2", len(n.Attrs))
	}
	if _, ok := n.Attr("missing"); ok {
		t.Error("missing attribute reported present")
	}
	n.RemoveAttr("href")
	n.RemoveAttr("missing")
	if _, ok := n.Attr("href"); ok || len(n.Attrs) != 1 {
		t.Errorf("RemoveAttr left %v", n.Attrs)
	}
}

func TestProps(t *testing.T) {
	n := NewElement("input")
	if _, ok := n.Prop("value"); ok {
		t.Error("unset prop reported present")
	}
	n.SetProp("value", "abc")
	if v, ok := n.Prop("value"); !ok || v != "abc" {
		t.Errorf("Prop(value) = %v, %v", v, ok)
	}
}

func TestTypes(t *testing.T) {
	got := Types([]*Node{NewComment(""), NewText("a"), NewElement("p")})
	want := []NodeType{CommentNode, TextNode, ElementNode}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Types()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
