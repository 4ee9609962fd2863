// Package template parses component templates into an AST.
//
// Templates are HTML read with the golang.org/x/net/html tokenizer, plus
// binding syntax:
//
//	[prop]="expr"        property binding
//	(event)="handler"    event binding (recorded only)
//	#ref / #ref="name"   template reference
//	*dir="microsyntax"   structural directive, desugared to a Template
//	let-x="key"          template input variable on <ng-template>
//	{{ expr }}           interpolation in text and attribute values
//	{n, plural, ...}     ICU select/plural blocks
//
// The tokenizer lower-cases tag and attribute names, so binding, reference
// and variable names are lower-case in the AST and are resolved
// case-insensitively by the runtime.
//
// By default whitespace-only text nodes are dropped and whitespace runs
// collapse to a single space; set Options.PreserveWhitespaces to keep them.
//
// Expressions support literals, dotted paths, !, &&, ||, == and !=.
package template
