package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

func newStatsCmd(a *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print progress and due-date statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}
			c, err := a.client(true)
			if err != nil {
				return err
			}
			s, err := c.DashboardStats(cmd.Context(), days)
			if api.IsAuthError(err) {
				return errNotSignedIn
			}
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), s, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Length of the progress window in days")
	return cmd
}

func printStats(w io.Writer, s model.DashboardStats, days int) {
	fmt.Fprintln(w, progressLine(s.Weekly, days))
	fmt.Fprintf(w, "Due soon %d · Overdue %d\n", s.DueSoon, s.TotalOverdue)

	fmt.Fprintf(w, "Priority  high %d · medium %d · low %d\n",
		s.PriorityStats["high"], s.PriorityStats["medium"], s.PriorityStats["low"])

	if len(s.ProjectStats) == 0 {
		return
	}
	names := make([]string, 0, len(s.ProjectStats))
	for name := range s.ProjectStats {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprint(w, "Projects ")
	for i, name := range names {
		if i > 0 {
			fmt.Fprint(w, " ·")
		}
		label := name
		if p, err := model.ParseProject(name); err == nil {
			label = p.Label()
		}
		fmt.Fprintf(w, " %s %d", label, s.ProjectStats[name])
	}
	fmt.Fprintln(w)
}

func progressLine(p model.Progress, days int) string {
	window := "This week"
	if days != 7 && days > 0 {
		window = fmt.Sprintf("Last %d days", days)
	}
	return theme.MutedStyle.Render(fmt.Sprintf("%s: %d of %d done (%.1f%%)", window, p.Completed, p.Total, p.CompletionRate))
}
