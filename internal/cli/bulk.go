package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tasko/internal/api"
)

var bulkActions = map[string]api.BulkAction{
	"done":   api.BulkMarkDone,
	"undone": api.BulkMarkUndone,
	"star":   api.BulkMarkImportant,
	"unstar": api.BulkMarkUnimportant,
	"delete": api.BulkDelete,
}

var bulkOperations = map[string]api.BulkOperation{
	"done-all":         api.OpMarkAllDone,
	"delete-completed": api.OpDeleteCompleted,
	"clear-all":        api.OpClearAll,
}

// destructive operations ask before running unless --yes is given.
var destructive = map[string]bool{
	"delete":           true,
	"delete-completed": true,
	"clear-all":        true,
}

func newBulkCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "bulk ACTION [ID...]",
		Short: "Change many tasks at once",
		Long: strings.TrimSpace(`
Actions on listed tasks: done, undone, star, unstar, delete.
Actions on every task: done-all, delete-completed, clear-all.`),
		Example: strings.TrimSpace(`
  tasko bulk done 3 4 7
  tasko bulk delete-completed --yes`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(args[0])
			action, isAction := bulkActions[name]
			op, isOp := bulkOperations[name]

			var ids []int64
			switch {
			case isAction:
				if len(args) < 2 {
					return fmt.Errorf("%s needs at least one task id", name)
				}
				for _, arg := range args[1:] {
					id, err := strconv.ParseInt(arg, 10, 64)
					if err != nil || id <= 0 {
						return fmt.Errorf("invalid task id %q", arg)
					}
					ids = append(ids, id)
				}
			case isOp:
				if len(args) > 1 {
					return fmt.Errorf("%s takes no task ids", name)
				}
			default:
				return fmt.Errorf("unknown action %q (%s)", args[0], knownBulkNames())
			}

			if destructive[name] && !yes {
				ok, err := a.prompt.Confirm(fmt.Sprintf("Really %s?", strings.ReplaceAll(name, "-", " ")))
				if err != nil {
					return err
				}
				if !ok {
					return errAborted
				}
			}

			c, err := a.client(true)
			if err != nil {
				return err
			}

			var res api.BulkResult
			if isAction {
				res, err = c.BulkUpdate(cmd.Context(), ids, action)
			} else {
				res, err = c.RunBulkOperation(cmd.Context(), op)
			}
			if api.IsAuthError(err) {
				return errNotSignedIn
			}
			if err != nil {
				return describe(err, "bulk "+name+" failed")
			}

			a.log.Infow("bulk change applied", "action", name, "ids", ids)
			fmt.Fprintln(cmd.OutOrStdout(), orDefault(res.Message, "Tasks updated"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation")
	return cmd
}

func knownBulkNames() string {
	var names []string
	for n := range bulkActions {
		names = append(names, n)
	}
	for n := range bulkOperations {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
