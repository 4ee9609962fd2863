// Package errors provides structured, actionable error messages for vtree.
//
// Each error has a unique code (e.g., "E110") that maps to a short message,
// a detailed explanation and a documentation URL. Public packages return
// typed errors (module.NotDeclaredError, schema.UnknownSchemaMemberError,
// template.ParseError) that implement Coder; FromError turns them into an
// *Error for terminal display.
//
// # Usage
//
//	err := errors.New("E110").
//	    WithSource("app.html", src, 3, 5).
//	    WithSuggestion("Add CUSTOM_ELEMENTS_SCHEMA to the module's schemas")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E110: Unknown element
//	//
//	//   app.html:3:5
//	//
//	//      1 │ <div>
//	//      2 │   <span></span>
//	//   →  3 │   <custom-el></custom-el>
//	//        │     ^
//	//      4 │ </div>
package errors
