package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts projectOptions

	rootCmd := &cobra.Command{
		Use:   "vtree",
		Short: "Inspect template-driven components and their view trees",
		Long: `vtree compiles the components and modules declared in a manifest,
validates their templates against the DOM schema and computes the root
nodes of their views.

Commands:
  • init    scaffold a config, manifest and templates
  • roots   print the root nodes of an embedded view
  • render  render a component to HTML
  • check   compile and validate every component
  • serve   start the inspection server`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				errors.DisableColors()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to vtree.json or vtree.yaml (default: nearest in working directory)")
	flags.StringVarP(&opts.manifestPath, "manifest", "m", "", "Path to the component manifest (default from config)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		initCmd(),
		rootsCmd(&opts),
		renderCmd(&opts),
		checkCmd(&opts),
		serveCmd(&opts),
		versionCmd(),
	)
	return rootCmd
}

// printError prints coded errors with their explanation and suggestion.
func printError(w io.Writer, err error) {
	var c errors.Coder
	if stderrors.As(err, &c) {
		err = errors.FromError(err, c.Code())
	}
	errors.Fprint(w, err)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", errors.Check(), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", errors.Cross(), fmt.Sprintf(format, args...))
}
