package main

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/errors"
)

func checkCmd(opts *projectOptions) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check [component...]",
		Short: "Compile and validate components",
		Long: `Create every component of the manifest, or the named ones, and report
undeclared components, unknown elements and properties, and template
parse errors.

With validation.unknownMembers set to "warn" schema problems are logged
and do not fail the check.

Examples:
  vtree check
  vtree check App TodoList
  vtree check -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = p.set.ComponentNames()
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, name := range names {
				if err := p.check(cmd, name); err != nil {
					failed++
					errorMsg(out, "%s", describeError(err))
					if verbose {
						printError(out, err)
					}
					continue
				}
				success(out, "%s", name)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d components failed", failed, len(names))
			}
			info(out, "%d components ok", len(names))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the full explanation of every error")

	return cmd
}

func (p *project) check(cmd *cobra.Command, name string) error {
	def, err := p.component(name)
	if err != nil {
		return err
	}
	ref, err := p.env.CreateComponent(cmd.Context(), def)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	ref.DetectChanges()
	ref.Destroy()
	return nil
}

// describeError returns a one-line description with the error code.
func describeError(err error) string {
	var c errors.Coder
	if stderrors.As(err, &c) {
		return fmt.Sprintf("%s [%s]", err, c.Code())
	}
	return err.Error()
}
