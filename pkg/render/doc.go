// Package render writes runtime nodes as HTML.
//
// Elements are written with their attributes in source order, text is
// escaped and view anchors appear as comments, so the output of a view's
// root nodes shows exactly where containers sit:
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(ref.RootNodes())
//	// <!--container--><li>one</li>
//
// Pretty indents block elements for reading. Minify runs the output through
// github.com/tdewolff/minify; anchor comments are dropped unless
// KeepComments is set.
//
// Describe turns nodes into the JSON shape used by the server and CLI.
package render
