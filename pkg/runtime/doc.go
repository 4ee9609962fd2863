// Package runtime instantiates compiled components into live views.
//
// An Environment owns the module configuration. CreateComponent compiles a
// component and everything it uses, then builds its view; DetectChanges
// evaluates bindings, runs directives and refreshes DOM children:
//
//	env := runtime.New(runtime.WithConfig(cfg))
//	if err := env.Configure(AppModule); err != nil { ... }
//	ref, err := env.CreateComponent(ctx, App)
//	if err != nil { ... }
//	ref.DetectChanges()
//
//	tpl, _ := ref.Template("row")
//	v := tpl.CreateEmbeddedView(map[string]any{"$implicit": item})
//	v.DetectChanges()
//	nodes := v.RootNodes()
//
// RootNodes descends into view containers, <ng-container>, ICU blocks and
// <ng-content> projections, in document order. Which placeholder an empty
// embedded view contributes depends on the configured flatten strategy.
//
// Directives are values returned by DirectiveDef.New. The runtime calls
// the methods of Attacher, InputSetter, Checker and Destroyer when the
// instance implements them. CommonModule provides NgIf, NgForOf and
// NgTemplateOutlet.
//
// Components and views are not safe for concurrent use.
package runtime
