package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/render"
)

func rootsCmd(opts *projectOptions) *cobra.Command {
	var (
		state   string
		context string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "roots <component> <template-ref>",
		Short: "Print the root nodes of an embedded view",
		Long: `Create the component, stamp out the template referenced as #ref and
print the root nodes of the resulting embedded view.

Examples:
  vtree roots App row
  vtree roots App row --context '{item: milk}'
  vtree roots App row --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			st, err := parseValues("state", state)
			if err != nil {
				return err
			}
			ctx, err := parseValues("context", context)
			if err != nil {
				return err
			}

			def, err := p.component(args[0])
			if err != nil {
				return err
			}
			ref, err := p.env.CreateComponent(cmd.Context(), def)
			if err != nil {
				return err
			}
			defer ref.Destroy()
			ref.SetState(st)
			ref.DetectChanges()

			tpl, err := ref.Template(args[1])
			if err != nil {
				return err
			}
			v := tpl.CreateEmbeddedView(ctx)
			defer v.Destroy()
			v.DetectChanges()

			return printRoots(cmd.OutOrStdout(), v.RootNodes(), asJSON)
		},
	}

	cmd.Flags().StringVarP(&state, "state", "s", "", "Component state as JSON or YAML")
	cmd.Flags().StringVar(&context, "context", "", "Embedded view context as JSON or YAML")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

// printRoots lists nodes one per line, or as JSON.
func printRoots(w io.Writer, nodes []*dom.Node, asJSON bool) error {
	infos := render.Describe(nodes)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	if len(infos) == 0 {
		info(w, "(no root nodes)")
		return nil
	}
	for i, n := range infos {
		switch n.Type {
		case "element":
			fmt.Fprintf(w, "%d  element  <%s>  %q\n", i, n.Tag, n.Text)
		default:
			fmt.Fprintf(w, "%d  %-7s  %q\n", i, n.Type, n.Text)
		}
	}
	return nil
}
