package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Module Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryModule,
		Message:  "Component is not part of any NgModule",
		Detail:   "A component requested for dynamic creation (entry or bootstrap component) is not declared by any loaded module.",
		DocURL:   "https://vtree.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryModule,
		Message:  "Type declared by more than one module",
		Detail:   "Every component and directive must be declared by exactly one module. Export it from one module and import that module where it is needed.",
		DocURL:   "https://vtree.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryModule,
		Message:  "Unknown module",
		Detail:   "A module refers to an import that was never defined.",
		DocURL:   "https://vtree.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryModule,
		Message:  "Invalid selector",
		Detail:   "A component or directive selector could not be parsed. Supported forms are tag, [attr], [attr=value], .class and comma-separated lists.",
		DocURL:   "https://vtree.dev/docs/errors/E103",
	},

	// ============================================
	// Schema Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategorySchema,
		Message:  "Unknown element",
		Detail:   "The template uses a tag that is neither a known HTML element nor claimed by a component selector in scope.",
		DocURL:   "https://vtree.dev/docs/errors/E110",
	},
	"E111": {
		Category: CategorySchema,
		Message:  "Unknown property binding",
		Detail:   "The template binds to a property that the element does not have and no directive in scope declares as an input.",
		DocURL:   "https://vtree.dev/docs/errors/E111",
	},
	"E112": {
		Category: CategorySchema,
		Message:  "Property binding not used by any directive on an embedded template",
		Detail:   "Bindings on <ng-template> must be consumed by a directive such as NgIf or NgTemplateOutlet.",
		DocURL:   "https://vtree.dev/docs/errors/E112",
	},

	// ============================================
	// Template Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryTemplate,
		Message:  "Template parse error",
		Detail:   "The template could not be parsed.",
		DocURL:   "https://vtree.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryTemplate,
		Message:  "Invalid binding expression",
		Detail:   "A binding expression uses syntax outside the supported subset (literals, paths, !, &&, ||, ==, !=).",
		DocURL:   "https://vtree.dev/docs/errors/E121",
	},

	// ============================================
	// Config Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file could not be parsed or failed validation.",
		DocURL:   "https://vtree.dev/docs/errors/E130",
	},
	"E131": {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No vtree.json, vtree.yaml or vtree.yml was found.",
		DocURL:   "https://vtree.dev/docs/errors/E131",
	},
	"E132": {
		Category: CategoryConfig,
		Message:  "Invalid manifest",
		Detail:   "The component manifest could not be parsed or refers to unknown components or modules.",
		DocURL:   "https://vtree.dev/docs/errors/E132",
	},

	// ============================================
	// Source Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategorySource,
		Message:  "Template source not found",
		Detail:   "A component's templateUrl could not be loaded.",
		DocURL:   "https://vtree.dev/docs/errors/E140",
	},

	// ============================================
	// Runtime Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryRuntime,
		Message:  "Unknown component",
		Detail:   "No component with this name is registered.",
		DocURL:   "https://vtree.dev/docs/errors/E150",
	},
	"E151": {
		Category: CategoryRuntime,
		Message:  "Unknown template reference",
		Detail:   "The component's view has no template reference with this name.",
		DocURL:   "https://vtree.dev/docs/errors/E151",
	},
	"E152": {
		Category: CategoryRuntime,
		Message:  "View destroyed",
		Detail:   "The view was destroyed and can no longer be used.",
		DocURL:   "https://vtree.dev/docs/errors/E152",
	},

	// ============================================
	// CLI Errors (E160-E169)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Unknown project template",
		Detail:   "vtree init was given a template name that does not exist.",
		DocURL:   "https://vtree.dev/docs/errors/E160",
	},
	"E161": {
		Category: CategoryCLI,
		Message:  "Project already initialized",
		Detail:   "The target directory already contains a file the template would write.",
		DocURL:   "https://vtree.dev/docs/errors/E161",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
