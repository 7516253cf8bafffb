// Package cli wires configuration, logging and the task backend into the
// tasktable commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// options holds the flags shared by every command
type options struct {
	dir      string
	project  string
	baseURL  string
	logFile  string
	logLevel string
}

// NewRootCmd builds the tasktable command tree. Without a subcommand it runs the TUI.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tasktable",
		Short: "Browse and edit a project's tasks in the terminal",
		Long: `tasktable shows the tasks of a project as an editable table.

Parents can be expanded to show their subtasks, cells are edited in place and
changes are sent to the task backend optimistically.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dir, "dir", "", "directory holding .tasktable.json (default: current directory)")
	flags.StringVarP(&opts.project, "project", "p", "", "registered project name or backend project id")
	flags.StringVar(&opts.baseURL, "base-url", "", "task backend URL")
	flags.StringVar(&opts.logFile, "log-file", "", "append logs to this file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newListCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
		newProjectCmd(opts),
	)
	return root
}

// Execute runs the command tree until it finishes or the process is interrupted
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
