package templates

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/manifest"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"minimal", false},
		{"modules", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)
			if tt.wantErr {
				var e *errors.Error
				if !stderrors.As(err, &e) || e.Code != "E160" {
					t.Fatalf("Get() error = %v, want E160", err)
				}
				if !strings.Contains(e.Suggestion, "minimal, modules") {
					t.Errorf("suggestion = %q", e.Suggestion)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Name = %q, want %q", tmpl.Name, tt.name)
			}
		})
	}
}

func TestList(t *testing.T) {
	if got := List(); !slices.Equal(got, []string{"minimal", "modules"}) {
		t.Errorf("List() = %v", got)
	}
}

// Every template must produce a project whose config and manifest load.
func TestCreate(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tmpl, _ := Get(name)
			if err := tmpl.Create(dir, Config{ProjectName: "shop"}); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			for _, p := range tmpl.Paths() {
				if _, err := os.Stat(filepath.Join(dir, p)); err != nil {
					t.Errorf("%s not created: %v", p, err)
				}
			}

			cfg, err := config.LoadFile(filepath.Join(dir, "vtree.yaml"))
			if err != nil {
				t.Fatalf("config: %v", err)
			}
			if cfg.Name != "shop" || cfg.Flatten.Strategy != "standard" {
				t.Errorf("config = %+v", cfg)
			}
			m, err := manifest.LoadFile(cfg.ManifestPath())
			if err != nil {
				t.Fatalf("manifest: %v", err)
			}
			if _, err := m.Build(); err != nil {
				t.Fatalf("Build() error = %v", err)
			}
		})
	}
}

func TestCreateSubstitution(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("minimal")
	err := tmpl.Create(dir, Config{
		ProjectName:    "shop",
		Description:    "Shop widgets",
		Strategy:       "legacy",
		CustomElements: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "vtree.yaml"))
	for _, want := range []string{"# Shop widgets", "strategy: legacy", "defaultSchemas: [custom-elements]"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("vtree.yaml lacks %q:\n%s", want, data)
		}
	}

	// Interpolations are left for the component compiler.
	data, _ = os.ReadFile(filepath.Join(dir, "components.yaml"))
	if !strings.Contains(string(data), "Hello {{name}}") || !strings.Contains(string(data), `name: "shop"`) {
		t.Errorf("components.yaml:\n%s", data)
	}
}

func TestCreateRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "components.yaml")
	if err := os.WriteFile(existing, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	tmpl, _ := Get("minimal")
	err := tmpl.Create(dir, Config{ProjectName: "shop"})
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E161" {
		t.Fatalf("Create() error = %v, want E161", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "vtree.yaml")); !os.IsNotExist(err) {
		t.Error("vtree.yaml written despite the conflict")
	}
	if data, _ := os.ReadFile(existing); string(data) != "keep" {
		t.Error("existing file overwritten")
	}
}
