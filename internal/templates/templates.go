package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/vango-dev/vtree/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// Description is a short project description.
	Description string

	// Strategy is the root-node strategy written to vtree.yaml.
	Strategy string

	// CustomElements adds the custom-elements schema to every module.
	CustomElements bool
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"modules": modulesTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E160").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: " + strings.Join(List(), ", "))
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Paths returns the template's file paths, sorted.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Create generates a project from the template. It refuses to overwrite
// existing files and writes nothing in that case.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.Strategy == "" {
		cfg.Strategy = "standard"
	}
	if cfg.Description == "" {
		cfg.Description = "Components for " + cfg.ProjectName
	}

	rendered := make(map[string][]byte, len(t.Files))
	for _, relPath := range t.Paths() {
		fullPath := filepath.Join(dir, relPath)
		if _, err := os.Stat(fullPath); err == nil {
			return errors.New("E161").
				WithDetail(relPath + " already exists in " + dir).
				WithSuggestion("Run vtree init in an empty directory")
		}

		tmpl, err := template.New(relPath).Delims("[[", "]]").Parse(t.Files[relPath])
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}
		rendered[relPath] = buf.Bytes()
	}

	for relPath, data := range rendered {
		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, data, 0644); err != nil {
			return err
		}
	}
	return nil
}

const configFile = `# [[.Description]]
name: "[[.ProjectName]]"
manifest: components.yaml

flatten:
  strategy: [[.Strategy]]

validation:
  unknownMembers: error
[[- if .CustomElements]]
  defaultSchemas: [custom-elements]
[[- end]]

sources:
  dir: templates

server:
  host: localhost
  port: 4200

metrics:
  enabled: true
  namespace: vtree
`

// minimalTemplate returns the minimal template.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "One inline component",
		Files: map[string]string{
			"vtree.yaml": configFile,
			"components.yaml": `components:
  - name: App
    template: |
      <h1>Hello {{name}}</h1>
      <ng-template #greeting let-who="who"><p>Welcome, {{who}}</p></ng-template>
    state:
      name: "[[.ProjectName]]"
`,
		},
	}
}

// modulesTemplate returns the modules template.
func modulesTemplate() *Template {
	return &Template{
		Name:        "modules",
		Description: "A feature module with templateUrl sources",
		Files: map[string]string{
			"vtree.yaml": configFile,
			"components.yaml": `components:
  - name: TodoList
    selector: todo-list
    inputs: [title]
    templateUrl: todo-list.html
    state:
      items: [milk, eggs]
  - name: App
    templateUrl: app.html
    state:
      title: "[[.ProjectName]]"
      done: false
  - name: SavedDialog
    template: <p>Saved</p>

modules:
  - name: TodoModule
    imports: [common]
    declarations: [TodoList]
    exports: [TodoList]
  - name: AppModule
    imports: [common, TodoModule]
    declarations: [App, SavedDialog]
    entryComponents: [SavedDialog]
    bootstrap: [App]

root: AppModule
`,
			"templates/app.html": `<h1>{{title}}</h1>
<todo-list [title]="title"></todo-list>
<p *ngIf="done">All done</p>
<ng-template #empty><p>Nothing to do</p></ng-template>
`,
			"templates/todo-list.html": `<h2>{{title}}</h2>
<ul>
  <li *ngFor="let item of items">{{item}}</li>
</ul>
`,
		},
	}
}
