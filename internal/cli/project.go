package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/riordanpawley/tasktable/internal/config"
)

func newProjectCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage named projects",
		Long: `Named projects map a short name to a backend project id, and optionally
to a backend of their own. Pass the name to --project or pick it with p in
the table.`,
	}
	cmd.AddCommand(
		newProjectListCmd(),
		newProjectAddCmd(opts),
		newProjectRemoveCmd(),
		newProjectDefaultCmd(),
	)
	return cmd
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.LoadProjectsRegistry()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(reg.Projects) == 0 {
				fmt.Fprintln(out, "No projects registered")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\tNAME\tID\tBACKEND")
			for _, p := range reg.Projects {
				marker := ""
				if p.Name == reg.DefaultProject {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, p.Name, p.ID, orDash(p.BaseURL))
			}
			return w.Flush()
		},
	}
}

func newProjectAddCmd(opts *options) *cobra.Command {
	var makeDefault bool

	cmd := &cobra.Command{
		Use:   "add NAME PROJECT_ID",
		Short: "Register a project; --base-url gives it its own backend",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.LoadProjectsRegistry()
			if err != nil {
				return err
			}

			project := config.Project{Name: args[0], ID: args[1], BaseURL: opts.baseURL}
			if err := reg.Add(project); err != nil {
				return fmt.Errorf("add %q: %w", args[0], err)
			}
			if makeDefault {
				if err := reg.SetDefault(args[0]); err != nil {
					return err
				}
			}
			if err := config.SaveProjectsRegistry(reg); err != nil {
				return fmt.Errorf("failed to save projects: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added project %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&makeDefault, "default", false, "make this the default project")
	return cmd
}

func newProjectRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Unregister a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.LoadProjectsRegistry()
			if err != nil {
				return err
			}
			if err := reg.Remove(args[0]); err != nil {
				return fmt.Errorf("remove %q: %w", args[0], err)
			}
			if err := config.SaveProjectsRegistry(reg); err != nil {
				return fmt.Errorf("failed to save projects: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", args[0])
			return nil
		},
	}
}

func newProjectDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default NAME",
		Short: "Set the project opened when --project is not given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.LoadProjectsRegistry()
			if err != nil {
				return err
			}
			if err := reg.SetDefault(args[0]); err != nil {
				return fmt.Errorf("default %q: %w", args[0], err)
			}
			if err := config.SaveProjectsRegistry(reg); err != nil {
				return fmt.Errorf("failed to save projects: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Default project is now %s\n", args[0])
			return nil
		},
	}
}
