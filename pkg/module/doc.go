// Package module declares components, directives and modules and resolves
// components to compiled templates.
//
// Declarations are explicit values registered at startup:
//
//	var Hello = &module.ComponentDef{
//	    Name:     "Hello",
//	    Selector: "hello-card",
//	    Template: `<p>Hello {{ name }}</p>`,
//	}
//
//	var App = &module.ModuleDef{
//	    Name:         "AppModule",
//	    Declarations: []*module.ComponentDef{Hello},
//	    Bootstrap:    []*module.ComponentDef{Hello},
//	}
//
//	reg := module.NewRegistry()
//	if err := reg.Load(App); err != nil { ... }
//	if err := reg.Verify(); err != nil { ... } // NotDeclaredError
//	compiled, err := reg.Resolve(ctx, Hello)
//
// A component's compilation scope is the set of components and directives
// declared by its module plus everything exported by the modules that
// module imports, following re-exported modules transitively.
package module
