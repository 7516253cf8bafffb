package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/riordanpawley/tasktable/internal/domain"
)

type listOptions struct {
	status   string
	phase    string
	priority string
	search   string
	sort     string
	desc     bool
	expand   bool
}

func newListCmd(opts *options) *cobra.Command {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task table once",
		Long: `Fetch the project's tasks, apply the filter and sort, and print the
resulting table without starting the interactive view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDependencies(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer deps.Close()
			return listTasks(cmd.Context(), deps, lo, time.Now(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&lo.status, "status", "", "only tasks with this status (todo, in_progress, done, archived)")
	f.StringVar(&lo.phase, "phase", "", "only tasks in this phase number, or \"none\"")
	f.StringVar(&lo.priority, "priority", "", "only tasks with this priority (low, medium, high, critical)")
	f.StringVar(&lo.search, "search", "", "only tasks whose title or description contains this text")
	f.StringVar(&lo.sort, "sort", "", "sort parents by phase, start_date, due_date, assignee, priority or status")
	f.BoolVar(&lo.desc, "desc", false, "sort descending")
	f.BoolVarP(&lo.expand, "expand", "e", false, "fetch and print the subtasks of every parent")
	return cmd
}

// filter builds the domain filter from the flags
func (lo *listOptions) filter() (*domain.Filter, error) {
	f := domain.NewFilter()
	f.SearchText = lo.search

	if lo.status != "" {
		if err := f.SetStatus(lo.status); err != nil {
			return nil, fmt.Errorf("--status %q: %w", lo.status, err)
		}
	}
	if lo.priority != "" {
		if err := f.SetPriority(lo.priority); err != nil {
			return nil, fmt.Errorf("--priority %q: %w", lo.priority, err)
		}
	}
	if lo.phase != "" {
		if err := f.SetPhase(lo.phase); err != nil {
			return nil, fmt.Errorf("--phase %q: %w", lo.phase, err)
		}
	}
	return f, nil
}

// sortFor builds the sort from the flags, falling back to the configured default
func (lo *listOptions) sortFor(initial domain.Sort) (*domain.Sort, error) {
	s := initial
	if lo.sort != "" {
		field := domain.SortField(lo.sort)
		if field == domain.SortNone || !field.Valid() {
			return nil, fmt.Errorf("--sort %q is not a sortable column", lo.sort)
		}
		s = domain.Sort{Field: field, Order: domain.SortAsc}
	}
	if lo.desc && s.Field != domain.SortNone {
		s.Order = domain.SortDesc
	}
	return &s, nil
}

// listTasks fetches the project's tasks and prints the composed table to out
func listTasks(ctx context.Context, deps *Dependencies, lo *listOptions, now time.Time, out io.Writer) error {
	filter, err := lo.filter()
	if err != nil {
		return err
	}
	initial := deps.Config.InitialSort()
	sort, err := lo.sortFor(initial)
	if err != nil {
		return err
	}

	projectID := deps.Config.Project.ID
	tasks, err := deps.Client.FetchTasks(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}

	expanded := make(map[string]bool)
	if lo.expand {
		parents := domain.Group(tasks).Parents
		for _, parent := range parents {
			subtasks, err := deps.Client.FetchSubtasks(ctx, parent.ID)
			if err != nil {
				return fmt.Errorf("failed to fetch subtasks of %s: %w", parent.ID, err)
			}
			tasks = append(tasks, subtasks...)
			expanded[parent.ID] = true
		}
	}

	deps.Logger.Debug("listing tasks", "project", projectID, "count", len(tasks))

	today := domain.NewDate(now)
	view := domain.BuildView(tasks, filter, sort, expanded, today)
	if len(view.Rows) == 0 {
		if filter.IsActive() {
			fmt.Fprintln(out, "No tasks match the current filters")
		} else {
			fmt.Fprintln(out, "No tasks to display")
		}
		return nil
	}

	writeTable(out, view.Rows, today)
	fmt.Fprintf(out, "\n%d of %d tasks in %s\n", view.Matched, len(tasks), projectID)
	return nil
}

// writeTable prints rows as aligned columns
func writeTable(out io.Writer, rows []domain.Row, today domain.Date) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tSTATUS\tPRIORITY\tPHASE\tASSIGNEE\tSTART\tDUE")

	for _, row := range rows {
		t := row.Task
		title := t.Title
		if row.Depth > 0 {
			title = "  └ " + title
		} else if row.Aggregate != nil {
			title += " [" + row.Aggregate.Summary + "]"
		}

		due := dateText(t.DueDate)
		if t.Overdue(today) {
			due += " !"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			title,
			t.Status.Label(),
			t.Priority.Label(),
			phaseText(t.PhaseNumber),
			orDash(t.Assignee.DisplayName()),
			dateText(t.StartDate),
			due,
		)
	}
	w.Flush()
}

func phaseText(phase *int) string {
	if phase == nil {
		return "-"
	}
	return "P" + strconv.Itoa(*phase)
}

func dateText(d *domain.Date) string {
	return orDash(domain.DateString(d))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
