package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/dashboard"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

type tasksOptions struct {
	view     string
	project  string
	priority string
	search   string
	sort     string
}

func (o tasksOptions) filters() (dashboard.Filters, error) {
	f := dashboard.DefaultFilters()

	v := dashboard.View(strings.ToLower(o.view))
	known := false
	for _, candidate := range dashboard.Views {
		if v == candidate {
			known = true
		}
	}
	if !known {
		return f, fmt.Errorf("unknown view %q (all, pending, completed, important)", o.view)
	}
	f.View = v

	p, err := model.ParseProject(o.project)
	if err != nil {
		return f, err
	}
	f.Project = p

	if o.priority != "" {
		pr := model.Priority(strings.ToLower(o.priority))
		if !pr.Valid() {
			return f, fmt.Errorf("unknown priority %q (low, medium, high)", o.priority)
		}
		f.Priority = pr
	}

	sortKey := dashboard.SortKey(strings.ToLower(o.sort))
	if dashboard.ParseSortKey(string(sortKey)) != sortKey {
		return f, fmt.Errorf("unknown sort %q (date, priority, title)", o.sort)
	}
	f.Sort = sortKey
	f.Search = strings.TrimSpace(o.search)
	return f, nil
}

func newTasksCmd(a *App) *cobra.Command {
	var o tasksOptions

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Print the dashboard task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.filters()
			if err != nil {
				return err
			}

			c, err := a.client(true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			all, err := c.ListTasks(ctx, api.TaskQuery{})
			if api.IsAuthError(err) {
				return errNotSignedIn
			}
			if err != nil {
				return err
			}
			filtered, err := c.ListTasks(ctx, f.Query())
			if err != nil {
				return err
			}

			s := dashboard.New(f)
			s.ApplyAll(all)
			s.ApplyFiltered(s.NextFilterSeq(), filtered)
			if stats, err := c.Stats(ctx); err == nil {
				s.ApplyStats(stats)
			} else {
				a.log.Warnw("fetching stats failed", "error", err)
			}

			today := model.DateOf(a.now())
			out := cmd.OutOrStdout()
			printBoard(out, dashboard.BuildBoard(s, today), today)

			if ds, err := c.DashboardStats(ctx, 0); err == nil {
				fmt.Fprintln(out, progressLine(ds.Weekly, 7))
			} else {
				a.log.Warnw("fetching dashboard stats failed", "error", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&o.view, "view", string(dashboard.ViewAll), "all, pending, completed or important")
	cmd.Flags().StringVar(&o.project, "project", "", "work, personal or health")
	cmd.Flags().StringVar(&o.priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&o.search, "search", "", "Match title or description")
	cmd.Flags().StringVar(&o.sort, "sort", string(dashboard.SortDate), "date, priority or title")
	return cmd
}

func printBoard(w io.Writer, b dashboard.Board, today model.Date) {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorIndigo).Render(b.Title)
	fmt.Fprintf(w, "%s · %d tasks\n", title, len(b.Cards()))
	fmt.Fprintln(w, theme.MutedStyle.Render(fmt.Sprintf(
		"Total %d · Completed %d · Pending %d · Overdue %d · %d%% done",
		b.Tiles.Total, b.Tiles.Done, b.Tiles.Pending, b.Tiles.Overdue, b.Counters.Percent,
	)))

	if b.Empty {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No tasks found")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "To Do (%d)\n", len(b.Todo))
	fmt.Fprintln(w, taskTable(b.Todo, today))
	if b.ShowDone {
		fmt.Fprintf(w, "Completed (%d)\n", len(b.Done))
		fmt.Fprintln(w, taskTable(b.Done, today))
	}
}

func taskTable(tasks []model.Task, today model.Date) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("", "ID", "TITLE", "PRIORITY", "DUE", "PROJECT").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(theme.ColorGray)
			}
			if col == 3 && row >= 0 && row < len(tasks) {
				return s.Inherit(theme.PriorityStyle(tasks[row].Priority))
			}
			return s
		})

	for _, task := range tasks {
		check := "[ ]"
		if task.Done {
			check = "[x]"
		}
		name := task.Title
		if task.Important {
			name = "★ " + name
		}
		due := "-"
		switch {
		case task.IsOverdue(today):
			due = "Overdue · " + task.Date.Format()
		case !task.Date.IsZero():
			due = task.Date.Format()
		}
		project := "-"
		if task.Project != model.ProjectNone {
			project = task.Project.Label()
		}
		t.Row(check, fmt.Sprint(task.ID), name, strings.ToUpper(string(task.Priority)), due, project)
	}
	return t.Render()
}
