// Package schema validates parsed templates against the DOM element schema
// and the directives in a compilation scope.
//
// A template is checked for three kinds of unknown members:
//
//   - elements that are neither HTML elements nor claimed by a directive
//     selector ('custom-el' is not a known element)
//   - property bindings that are neither DOM properties of the element nor
//     inputs of a matched directive
//   - bindings on an <ng-template> that no directive consumes
//
// The CustomElements schema permits any dashed tag and any property on it.
// The NoErrors schema permits everything. Without a schema validation is
// strict.
//
// Validator.Check applies the configured Severity: SeverityError fails on
// the first diagnostic, SeverityWarn logs every diagnostic with slog and
// lets compilation continue.
package schema
