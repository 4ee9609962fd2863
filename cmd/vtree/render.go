package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/render"
)

func renderCmd(opts *projectOptions) *cobra.Command {
	var (
		state   string
		context string
		tplRef  string
		config  render.RendererConfig
	)

	cmd := &cobra.Command{
		Use:   "render <component>",
		Short: "Render a component to HTML",
		Long: `Create the component, run change detection and print the HTML of its
root nodes. With --template, render an embedded view of #ref instead.

Examples:
  vtree render App
  vtree render App --state '{name: Gopher}' --pretty
  vtree render App --template row --context '{item: milk}' --minify`,
		Args: cobra.ExactArgs(1),
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

			var nodes []*dom.Node
			if tplRef != "" {
				tpl, err := ref.Template(tplRef)
				if err != nil {
					return err
				}
				v := tpl.CreateEmbeddedView(ctx)
				defer v.Destroy()
				v.DetectChanges()
				nodes = v.RootNodes()
			} else {
				nodes = ref.RootNodes()
			}

			html, err := render.NewRenderer(config).RenderToString(nodes)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), html)
			if !config.Pretty || config.Minify {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&state, "state", "s", "", "Component state as JSON or YAML")
	cmd.Flags().StringVar(&context, "context", "", "Embedded view context as JSON or YAML")
	cmd.Flags().StringVarP(&tplRef, "template", "t", "", "Render an embedded view of this template reference")
	cmd.Flags().BoolVarP(&config.Pretty, "pretty", "p", false, "Indent the output")
	cmd.Flags().BoolVar(&config.Minify, "minify", false, "Minify the output")
	cmd.Flags().BoolVar(&config.KeepComments, "keep-comments", false, "Keep anchor comments when minifying")

	return cmd
}
