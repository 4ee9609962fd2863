// Package vtest provides testing helpers for vtree components.
//
// The vtest package reduces boilerplate when testing components by
// providing a fluent testing-module builder, fixtures and node assertions.
//
// # Quick Start
//
//	func TestGreeting(t *testing.T) {
//	    f := vtest.NewBed(t).
//	        WithDeclarations(greeting).
//	        CreateComponent(greeting)
//	    vtest.ExpectContains(t, f.RootNodes(), "Hello World")
//
//	    f.Set("name", "Gopher").DetectChanges()
//	    vtest.ExpectTexts(t, f.RootNodes(), "Hello Gopher")
//	}
//
// # Embedded Views
//
// Fixture.Embed stamps out a template reference and runs change detection:
//
//	v := f.Embed("row", map[string]any{"item": "milk"})
//	vtest.ExpectTypes(t, v.RootNodes(), dom.ElementNode)
//
// # Expected Failures
//
// TryCreateComponent returns creation errors instead of failing the test:
//
//	_, err := vtest.NewBed(t).WithDeclarations(app).TryCreateComponent(app)
//	var unknown *schema.UnknownSchemaMemberError
//	if !errors.As(err, &unknown) {
//	    t.Fatal("expected an unknown element")
//	}
package vtest
