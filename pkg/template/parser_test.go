package template

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(src, Options{File: "test.html"})
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return doc
}

func textOf(t *testing.T, n Node) string {
	t.Helper()
	txt, ok := n.(*Text)
	if !ok {
		t.Fatalf("node is %T, want *Text", n)
	}
	return txt.Value.String()
}

func bindingNames(bs []Binding) []string {
	var names []string
	for _, b := range bs {
		names = append(names, b.Name)
	}
	return names
}

func TestParseSiblings(t *testing.T) {
	doc := mustParse(t, `<div></div>some text<span></span>`)
	if len(doc.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(doc.Nodes))
	}
	if e, ok := doc.Nodes[0].(*Element); !ok || e.Name != "div" {
		t.Errorf("Nodes[0] = %#v, want <div>", doc.Nodes[0])
	}
	if got := textOf(t, doc.Nodes[1]); got != "some text" {
		t.Errorf("Nodes[1] = %q", got)
	}
	if e, ok := doc.Nodes[2].(*Element); !ok || e.Name != "span" {
		t.Errorf("Nodes[2] = %#v, want <span>", doc.Nodes[2])
	}
}

func TestParseWhitespace(t *testing.T) {
	src := "<div>\n  <span>a   \n b</span>\n</div>"

	doc := mustParse(t, src)
	div := doc.Nodes[0].(*Element)
	if len(div.Children) != 1 {
		t.Fatalf("whitespace-only text kept: %d children", len(div.Children))
	}
	span := div.Children[0].(*Element)
	if got := textOf(t, span.Children[0]); got != "a b" {
		t.Errorf("collapsed text = %q, want %q", got, "a b")
	}

	kept, err := Parse(src, Options{PreserveWhitespaces: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(kept.Nodes[0].(*Element).Children); n != 3 {
		t.Errorf("PreserveWhitespaces: %d children, want 3", n)
	}
}

func TestParseEntities(t *testing.T) {
	doc := mustParse(t, `<p>a &amp; b &lt;c&gt;</p>`)
	p := doc.Nodes[0].(*Element)
	if got := textOf(t, p.Children[0]); got != "a & b <c>" {
		t.Errorf("text = %q", got)
	}
}

func TestParseVoidAndSelfClosing(t *testing.T) {
	doc := mustParse(t, `<input><br/><custom-el/>text`)
	if len(doc.Nodes) != 4 {
		t.Fatalf("len(Nodes) = %d, want 4", len(doc.Nodes))
	}
	if !IsVoidElement("img") || IsVoidElement("div") {
		t.Error("IsVoidElement wrong")
	}
}

func TestParseInterpolatedText(t *testing.T) {
	doc := mustParse(t, `<span>Hello {{ name }}!</span>`)
	txt := doc.Nodes[0].(*Element).Children[0].(*Text)
	if txt.Value.Static() {
		t.Fatal("interpolated text reported static")
	}
	if got := txt.Value.Eval(MapScope{"name": "Ada"}); got != "Hello Ada!" {
		t.Errorf("Eval() = %q", got)
	}
}

func TestParseAttributes(t *testing.T) {
	doc := mustParse(t, `<input class="a" [value]="name" bind-placeholder="hint" `+
		`(input)="onInput()" on-blur="onBlur" [(ngModel)]="model" title="Hi {{name}}" i18n-title>`)
	in := doc.Nodes[0].(*Element)

	if len(in.Attrs) != 1 || in.Attrs[0].Name != "class" || in.Attrs[0].Value != "a" {
		t.Errorf("Attrs = %+v", in.Attrs)
	}
	wantInputs := []string{"value", "placeholder", "ngmodel", "title"}
	if got := bindingNames(in.Inputs); !reflect.DeepEqual(got, wantInputs) {
		t.Errorf("Inputs = %v, want %v", got, wantInputs)
	}
	var outputs []string
	for _, o := range in.Outputs {
		outputs = append(outputs, o.Name)
	}
	wantOutputs := []string{"input", "blur", "ngmodelchange"}
	if !reflect.DeepEqual(outputs, wantOutputs) {
		t.Errorf("Outputs = %v, want %v", outputs, wantOutputs)
	}

	names := AttributeNames(in.Attrs, in.Inputs)
	if _, ok := names["value"]; !ok || names["class"] != "a" {
		t.Errorf("AttributeNames() = %v", names)
	}
}

func TestParseTemplateRefsAndVariables(t *testing.T) {
	doc := mustParse(t, `<ng-template #tplRef let-item let-i="index"><span>{{item}}</span></ng-template>`)
	tpl, ok := doc.Nodes[0].(*Template)
	if !ok {
		t.Fatalf("Nodes[0] is %T, want *Template", doc.Nodes[0])
	}
	if tpl.TagName != "ng-template" {
		t.Errorf("TagName = %q", tpl.TagName)
	}
	if len(tpl.Refs) != 1 || tpl.Refs[0].Name != "tplref" {
		t.Errorf("Refs = %+v, want lower-cased tplref", tpl.Refs)
	}
	want := []Variable{{Name: "item", Value: "$implicit"}, {Name: "i", Value: "index"}}
	if !reflect.DeepEqual(tpl.Variables, want) {
		t.Errorf("Variables = %+v, want %+v", tpl.Variables, want)
	}
	if len(tpl.Children) != 1 {
		t.Errorf("Children = %d, want 1", len(tpl.Children))
	}
}

func TestParseStructuralDirective(t *testing.T) {
	doc := mustParse(t, `<div *ngIf="show; else other" class="box">x</div>`)
	tpl, ok := doc.Nodes[0].(*Template)
	if !ok {
		t.Fatalf("Nodes[0] is %T, want desugared *Template", doc.Nodes[0])
	}
	if tpl.TagName != "div" {
		t.Errorf("TagName = %q, want div", tpl.TagName)
	}
	if len(tpl.Attrs) != 1 || tpl.Attrs[0].Name != "ngif" {
		t.Errorf("Attrs = %+v", tpl.Attrs)
	}
	if got := bindingNames(tpl.Inputs); !reflect.DeepEqual(got, []string{"ngif", "ngifelse"}) {
		t.Errorf("Inputs = %v", got)
	}
	div, ok := tpl.Children[0].(*Element)
	if !ok || div.Name != "div" || len(div.Attrs) != 1 {
		t.Errorf("wrapped element = %#v", tpl.Children[0])
	}
}

func TestParseMultipleStructuralDirectives(t *testing.T) {
	_, err := Parse(`<div *ngIf="a" *ngFor="let x of xs"></div>`, Options{})
	if err == nil || !strings.Contains(err.Error(), "multiple template bindings") {
		t.Errorf("error = %v", err)
	}
}

func TestParseMicrosyntax(t *testing.T) {
	tests := []struct {
		dir, value string
		inputs     []string
		vars       []Variable
	}{
		{
			dir: "ngif", value: "cond",
			inputs: []string{"ngif"},
		},
		{
			dir: "ngif", value: "user as u",
			inputs: []string{"ngif"},
			vars:   []Variable{{Name: "u", Value: "ngif"}},
		},
		{
			dir: "ngif", value: "",
			inputs: []string{"ngif"},
		},
		{
			dir: "ngfor", value: "let item of items; let i = index",
			inputs: []string{"ngforof"},
			vars:   []Variable{{Name: "item", Value: "$implicit"}, {Name: "i", Value: "index"}},
		},
		{
			dir: "ngfor", value: "let item of items; index as i, trackBy: track",
			inputs: []string{"ngforof", "ngfortrackby"},
			vars:   []Variable{{Name: "item", Value: "$implicit"}, {Name: "i", Value: "index"}},
		},
		{
			dir: "ngtemplateoutlet", value: "tpl; context: ctx",
			inputs: []string{"ngtemplateoutlet", "ngtemplateoutletcontext"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			s, err := parseMicrosyntax(tt.dir, tt.value)
			if err != nil {
				t.Fatal(err)
			}
			if got := bindingNames(s.inputs); !reflect.DeepEqual(got, tt.inputs) {
				t.Errorf("inputs = %v, want %v", got, tt.inputs)
			}
			if !reflect.DeepEqual(s.vars, tt.vars) {
				t.Errorf("vars = %+v, want %+v", s.vars, tt.vars)
			}
		})
	}
}

func TestParseContentSelectors(t *testing.T) {
	doc := mustParse(t, `<header><ng-content select="[title]"></ng-content></header><ng-content></ng-content>`)
	want := []string{"[title]", "*"}
	if !reflect.DeepEqual(doc.ContentSelectors, want) {
		t.Errorf("ContentSelectors = %v, want %v", doc.ContentSelectors, want)
	}
}

func TestParseContainer(t *testing.T) {
	doc := mustParse(t, `<ng-container>text</ng-container>`)
	c, ok := doc.Nodes[0].(*Container)
	if !ok {
		t.Fatalf("Nodes[0] is %T, want *Container", doc.Nodes[0])
	}
	if got := textOf(t, c.Children[0]); got != "text" {
		t.Errorf("child text = %q", got)
	}
}

func TestParseICUSelect(t *testing.T) {
	doc := mustParse(t, `<ng-container i18n>Updated {minutes, select, =0 {just now} other {some time ago}}</ng-container>`)
	c := doc.Nodes[0].(*Container)
	if len(c.Children) != 2 {
		t.Fatalf("Children = %d, want text and ICU", len(c.Children))
	}
	if got := textOf(t, c.Children[0]); got != "Updated " {
		t.Errorf("prefix = %q", got)
	}
	icu, ok := c.Children[1].(*ICU)
	if !ok {
		t.Fatalf("Children[1] is %T, want *ICU", c.Children[1])
	}
	if icu.Type != "select" || icu.Switch.String() != "minutes" {
		t.Errorf("ICU = %s %s", icu.Switch, icu.Type)
	}
	if len(icu.Cases) != 2 || icu.Cases[0].Key != "=0" || icu.Cases[1].Key != "other" {
		t.Fatalf("Cases = %+v", icu.Cases)
	}
	if got := textOf(t, icu.Cases[0].Nodes[0]); got != "just now" {
		t.Errorf("case text = %q", got)
	}

	if got := icu.Select(0, language.English); got != 0 {
		t.Errorf("Select(0) = %d, want 0", got)
	}
	if got := icu.Select(5, language.English); got != 1 {
		t.Errorf("Select(5) = %d, want 1", got)
	}
}

func TestParseICUSelectByString(t *testing.T) {
	doc := mustParse(t, `{gender, select, male {he} female {she} other {they}}`)
	icu := doc.Nodes[0].(*ICU)
	tests := []struct {
		value any
		want  int
	}{
		{"male", 0},
		{"female", 1},
		{"unknown", 2},
		{nil, 2},
	}
	for _, tt := range tests {
		if got := icu.Select(tt.value, language.English); got != tt.want {
			t.Errorf("Select(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestParseICUPlural(t *testing.T) {
	doc := mustParse(t, `{count, plural, =0 {none} one {# item} other {# items}}`)
	icu := doc.Nodes[0].(*ICU)

	tests := []struct {
		n    any
		want int
	}{
		{0, 0},
		{1, 1},
		{3, 2},
		{1.5, 2},
	}
	for _, tt := range tests {
		if got := icu.Select(tt.n, language.English); got != tt.want {
			t.Errorf("Select(%v) = %d, want %d", tt.n, got, tt.want)
		}
	}

	txt := icu.Cases[2].Nodes[0].(*Text)
	if got := txt.Value.Eval(MapScope{"count": 3}); got != "3 items" {
		t.Errorf("plural case = %q, want %q", got, "3 items")
	}
}

func TestParseICUWithElements(t *testing.T) {
	doc := mustParse(t, `<p>{n, select, a {<b>bold</b>} other {plain}} tail</p>`)
	p := doc.Nodes[0].(*Element)
	icu, ok := p.Children[0].(*ICU)
	if !ok {
		t.Fatalf("Children[0] is %T, want *ICU", p.Children[0])
	}
	if b, ok := icu.Cases[0].Nodes[0].(*Element); !ok || b.Name != "b" {
		t.Errorf("case a = %#v, want <b>", icu.Cases[0].Nodes[0])
	}
	if got := textOf(t, p.Children[1]); got != " tail" {
		t.Errorf("trailing text = %q", got)
	}
}

func TestParseInterpolationIsNotICU(t *testing.T) {
	doc := mustParse(t, `{{ a }}, select, b`)
	if _, ok := doc.Nodes[0].(*Text); !ok || len(doc.Nodes) != 1 {
		t.Errorf("interpolation misread as ICU: %#v", doc.Nodes)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode string
		wantLine int
		wantCol  int
		wantMsg  string
	}{
		{"unexpected close", "<div>\n  </span>", "E120", 2, 3, `unexpected closing tag "span"`},
		{"mismatched close", "<div><span></div>", "E120", 1, 12, `unexpected closing tag "div"`},
		{"unclosed", "<p>\n<div>", "E120", 2, 1, `unclosed element "div"`},
		{"bad binding", `<div [x]="a +"></div>`, "E121", 1, 1, "unexpected character"},
		{"bad interpolation", `<b>{{ a && }}</b>`, "E121", 1, 4, "unexpected end"},
		{"unterminated ICU", `x {n, select, a {y}`, "E120", 1, 3, "unterminated ICU"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, Options{File: "app.html"})
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if pe.Code() != tt.wantCode {
				t.Errorf("Code() = %q, want %q", pe.Code(), tt.wantCode)
			}
			if pe.Line != tt.wantLine || pe.Column != tt.wantCol {
				t.Errorf("position = %d:%d, want %d:%d", pe.Line, pe.Column, tt.wantLine, tt.wantCol)
			}
			if !strings.Contains(pe.Msg, tt.wantMsg) {
				t.Errorf("Msg = %q, want it to contain %q", pe.Msg, tt.wantMsg)
			}
			if !strings.HasPrefix(pe.Error(), "app.html:") {
				t.Errorf("Error() = %q", pe.Error())
			}
		})
	}
}

func TestWalkSkip(t *testing.T) {
	doc := mustParse(t, `<div><span>a</span></div><p>b</p>`)
	var seen []string
	Walk(doc.Nodes, func(n Node) bool {
		if e, ok := n.(*Element); ok {
			seen = append(seen, e.Name)
			return e.Name != "div"
		}
		return true
	})
	if !reflect.DeepEqual(seen, []string{"div", "p"}) {
		t.Errorf("Walk visited %v", seen)
	}
}
