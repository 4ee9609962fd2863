package manifest

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/schema"
)

const todoYAML = `
components:
  - name: TodoList
    selector: todo-list
    inputs: [title]
    template: |
      <h2>{{title}}</h2>
      <li *ngFor="let item of items">{{item}}</li>
    state:
      title: Groceries
      items: [milk, eggs]
  - name: App
    template: <todo-list></todo-list>
modules:
  - name: TodoModule
    imports: [common]
    declarations: [TodoList]
    exports: [TodoList]
  - name: AppModule
    imports: [TodoModule]
    declarations: [App]
    bootstrap: [App]
    schemas: [CUSTOM_ELEMENTS_SCHEMA]
root: AppModule
`

func TestParseAndBuild(t *testing.T) {
	m, err := Parse([]byte(todoYAML), ".yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	set, err := m.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if set.Root.Name != "AppModule" {
		t.Errorf("root = %s", set.Root.Name)
	}
	todo := set.Modules["TodoModule"]
	if len(todo.Imports) != 1 || todo.Imports[0] != runtime.CommonModule {
		t.Errorf("common was not resolved to the built-in module: %v", todo.Imports)
	}
	if len(set.Root.Imports) != 1 || set.Root.Imports[0] != todo {
		t.Errorf("root imports = %v", set.Root.Imports)
	}
	if len(set.Root.Schemas) != 1 || set.Root.Schemas[0] != schema.CustomElements {
		t.Errorf("schemas = %v", set.Root.Schemas)
	}
	if got := strings.Join(set.ComponentNames(), ","); got != "App,TodoList" {
		t.Errorf("ComponentNames() = %s", got)
	}

	list, ok := set.Component("TodoList")
	if !ok || list.Selector != "todo-list" || len(list.Inputs) != 1 {
		t.Fatalf("TodoList = %+v", list)
	}
	if set.Root.Bootstrap[0] != set.Components["App"] {
		t.Error("bootstrap does not point at App")
	}

	// Each instance gets its own copy of nested state.
	a, b := list.New(), list.New()
	a["items"].([]any)[0] = "bread"
	if b["items"].([]any)[0] != "milk" {
		t.Error("state copies share nested slices")
	}
}

func TestBuildRunsInRuntime(t *testing.T) {
	m, err := Parse([]byte(todoYAML), ".yml")
	if err != nil {
		t.Fatal(err)
	}
	set, err := m.Build()
	if err != nil {
		t.Fatal(err)
	}
	env := runtime.New()
	if err := env.Configure(set.Root); err != nil {
		t.Fatal(err)
	}
	ref, err := env.CreateComponent(t.Context(), set.Components["App"])
	if err != nil {
		t.Fatalf("CreateComponent() = %v", err)
	}
	ref.DetectChanges()
	if got := ref.HostElement().TextContent(); got != "Groceriesmilkeggs" {
		t.Errorf("text = %q", got)
	}
}

func TestParseJSON(t *testing.T) {
	data := `{"components":[{"name":"Hello","template":"hi {{name}}","state":{"name":"you"}}]}`
	m, err := Parse([]byte(data), ".json")
	if err != nil {
		t.Fatal(err)
	}
	set, err := m.Build()
	if err != nil {
		t.Fatal(err)
	}
	if set.Root.Name != DefaultRootName || len(set.Root.Declarations) != 1 {
		t.Errorf("root = %+v", set.Root)
	}
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		ext      string
		wantCode string
		want     string
	}{
		{
			name:     "invalid yaml",
			data:     "components: [",
			ext:      ".yaml",
			wantCode: "E132",
			want:     "Failed to parse manifest",
		},
		{
			name:     "invalid json",
			data:     "{",
			ext:      ".json",
			wantCode: "E132",
			want:     "Failed to parse manifest",
		},
		{
			name:     "missing name",
			data:     "components:\n  - template: x\n",
			ext:      ".yaml",
			wantCode: "E132",
			want:     "components[0].name is required",
		},
		{
			name:     "duplicate component",
			data:     "components:\n  - name: A\n  - name: A\n",
			ext:      ".yaml",
			wantCode: "E132",
			want:     "component A is defined twice",
		},
		{
			name:     "reserved module name",
			data:     "components: []\nmodules:\n  - name: common\n",
			ext:      ".yaml",
			wantCode: "E132",
			want:     `module name "common" is reserved`,
		},
		{
			name:     "unknown schema",
			data:     "components: []\nmodules:\n  - name: M\n    schemas: [strict]\n",
			ext:      ".yaml",
			wantCode: "E132",
			want:     "unknown schema",
		},
		{
			name:     "unknown import",
			data:     "components: []\nmodules:\n  - name: M\n    imports: [Missing]\n",
			ext:      ".yaml",
			wantCode: "E102",
			want:     "M refers to module Missing",
		},
		{
			name:     "unknown declaration",
			data:     "components: []\nmodules:\n  - name: M\n    declarations: [Ghost]\n",
			ext:      ".yaml",
			wantCode: "E132",
			want:     "declarations names unknown component Ghost",
		},
		{
			name:     "unknown export",
			data:     "components: []\nmodules:\n  - name: M\n    exports: [Ghost]\n",
			ext:      ".yaml",
			wantCode: "E132",
			want:     "neither a component nor a module",
		},
		{
			name:     "unknown root",
			data:     "components: []\nroot: Nope\n",
			ext:      ".yaml",
			wantCode: "E102",
			want:     "root refers to module Nope",
		},
		{
			name:     "ambiguous root",
			data:     "components: []\nmodules:\n  - name: A\n  - name: B\n",
			ext:      ".yaml",
			wantCode: "E132",
			want:     "no root",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.data), tt.ext)
			if err == nil {
				_, err = m.Build()
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error = %v, want *errors.Error", err)
			}
			if e.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", e.Code, tt.wantCode)
			}
			if !strings.Contains(e.Detail, tt.want) {
				t.Errorf("detail = %q, want it to contain %q", e.Detail, tt.want)
			}
		})
	}
}

func TestBuildUnvalidatedSchemas(t *testing.T) {
	m := &Manifest{
		Components: []Component{{Name: "App", Template: "<p></p>"}},
		Modules:    []Module{{Name: "M", Declarations: []string{"App"}, Schemas: []string{"strict"}}},
	}
	_, err := m.Build()
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E132" {
		t.Fatalf("Build() error = %v, want E132", err)
	}
	if !strings.Contains(e.Detail, `module M: schema: unknown schema "strict"`) {
		t.Errorf("detail = %q", e.Detail)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components.yaml")
	if err := os.WriteFile(path, []byte(todoYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Components) != 2 || m.Root != "AppModule" {
		t.Errorf("manifest = %+v", m)
	}

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E132" {
		t.Errorf("LoadFile(missing) = %v, want E132", err)
	}
}
