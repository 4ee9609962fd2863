package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "module error",
			code:    "E100",
			wantMsg: "Component is not part of any NgModule",
			wantCat: CategoryModule,
		},
		{
			name:    "schema error",
			code:    "E110",
			wantMsg: "Unknown element",
			wantCat: CategorySchema,
		},
		{
			name:    "config error",
			code:    "E130",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRuntime, "component %q not found", "App")
	if err.Message != `component "App" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != `component "App" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	err := New("E110")
	if got := err.Error(); got != "E110: Unknown element" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapUnwrap(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := New("E140").Wrap(inner)
	if err.Unwrap() != inner {
		t.Error("Unwrap should return the wrapped error")
	}
}

type codedErr struct{}

func (codedErr) Error() string { return "'custom-el' is not a known element" }
func (codedErr) Code() string  { return "E110" }

func TestFromError(t *testing.T) {
	if FromError(nil, "E120") != nil {
		t.Fatal("nil error should stay nil")
	}

	e := FromError(codedErr{}, "E120")
	if e.Code != "E110" {
		t.Errorf("Code = %q, want E110 from Coder", e.Code)
	}
	if e.Detail != "'custom-el' is not a known element" {
		t.Errorf("Detail = %q", e.Detail)
	}

	plain := FromError(fmt.Errorf("plain"), "E120")
	if plain.Code != "E120" {
		t.Errorf("Code = %q, want fallback E120", plain.Code)
	}

	orig := New("E130")
	if FromError(fmt.Errorf("wrapped: %w", orig), "E120") != orig {
		t.Error("FromError should unwrap an existing *Error")
	}
}

func TestWithSourceContext(t *testing.T) {
	src := "<div>\n  <span></span>\n  <custom-el></custom-el>\n</div>"
	err := New("E110").WithSource("app.html", src, 3, 3)

	if err.Location.String() != "app.html:3:3" {
		t.Errorf("Location = %q", err.Location.String())
	}
	if len(err.Context) != 4 {
		t.Fatalf("Context len = %d, want 4", len(err.Context))
	}
	if err.ContextStart != 1 {
		t.Errorf("ContextStart = %d, want 1", err.ContextStart)
	}
}

func TestLocationString(t *testing.T) {
	var nilLoc *Location
	if nilLoc.String() != "" {
		t.Error("nil location should be empty")
	}
	l := &Location{Line: 2}
	if l.String() != "<template>:2" {
		t.Errorf("String() = %q", l.String())
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	src := "<div>\n  <custom-el></custom-el>\n</div>"
	err := New("E110").
		WithSource("app.html", src, 2, 3).
		WithSuggestion("Add CUSTOM_ELEMENTS_SCHEMA")

	out := err.Format()
	for _, want := range []string{
		"error[E110]: Unknown element\n",
		" --> app.html:2:3\n",
		"2 |   <custom-el></custom-el>\n  |   ^\n",
		"= hint: Add CUSTOM_ELEMENTS_SCHEMA",
		"= docs: https://vtree.dev/docs/errors/E110",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E120").WithLocation("app.html", 4, 2)
	if got := err.FormatCompact(); got != "app.html:4:2: E120: Template parse error" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if got := strings.Join(lines, "|"); got != "one two|three four|five six" {
		t.Errorf("wrapText() = %q", got)
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce nil")
	}
	if got := wrapText("extraordinarily long", 5); len(got) != 2 {
		t.Errorf("long words = %q", got)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, fmt.Errorf("load: %w", New("E131")))
	if !strings.HasPrefix(b.String(), "error[E131]: Configuration not found\n") {
		t.Errorf("Fprint() = %q", b.String())
	}

	b.Reset()
	Fprint(&b, fmt.Errorf("plain"))
	if b.String() != "error: plain\n" {
		t.Errorf("Fprint() = %q", b.String())
	}
}

func TestAllCodesRegistered(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has incomplete template", code)
		}
	}
}
