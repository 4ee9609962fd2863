// Package templates provides project scaffolding templates.
//
// This package contains embedded templates for creating new vtree projects.
// Each template writes a vtree.yaml, a component manifest and template
// sources that pass vtree check as generated.
//
// # Available Templates
//
//   - minimal: one inline component in an implicit AppModule
//   - modules: a feature module, templateUrl sources and an entry component
//
// # Usage
//
//	tmpl, err := templates.Get("modules")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(dir, templates.Config{ProjectName: "shop"}); err != nil {
//	    return err
//	}
//
// # Template Variables
//
// Files are Go text templates delimited by [[ and ]], leaving {{ }} to
// component interpolation:
//
//	[[.ProjectName]]     - Name of the project
//	[[.Description]]     - Project description
//	[[.Strategy]]        - Root-node strategy, "standard" or "legacy"
//	[[.CustomElements]]  - Whether unknown dashed elements are allowed
package templates
