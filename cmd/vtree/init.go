package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		templateName   string
		name           string
		description    string
		strategy       string
		customElements bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a vtree.yaml, manifest and templates",
		Long: `Scaffold a project that vtree check accepts as generated.

Templates:
  minimal   one inline component (default)
  modules   a feature module, templateUrl sources and an entry component

Examples:
  vtree init
  vtree init shop --template modules
  vtree init --strategy legacy --custom-elements`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(abs)
			}

			tmpl, err := templates.Get(templateName)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(abs, 0755); err != nil {
				return err
			}
			err = tmpl.Create(abs, templates.Config{
				ProjectName:    name,
				Description:    description,
				Strategy:       strategy,
				CustomElements: customElements,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Created %s project in %s", tmpl.Name, dir)
			for _, p := range tmpl.Paths() {
				info(out, "%s", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "minimal", "Project template")
	cmd.Flags().StringVar(&name, "name", "", "Project name (default: directory name)")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&strategy, "strategy", "standard", "Root-node strategy: standard or legacy")
	cmd.Flags().BoolVar(&customElements, "custom-elements", false, "Allow unknown dashed elements")

	return cmd
}
