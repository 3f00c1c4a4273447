package command

import (
	"fmt"
	"strings"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/dashboard"
	"github.com/nhle/tasko/internal/model"
)

// Kind names a palette command.
type Kind string

const (
	KindRefresh       Kind = "refresh"
	KindQuit          Kind = "quit"
	KindLogout        Kind = "logout"
	KindNew           Kind = "new"
	KindTheme         Kind = "theme"
	KindNotifications Kind = "notifications"
	KindMarkAllRead   Kind = "read-all"
	KindClear         Kind = "clear"
	KindView          Kind = "view"
	KindProject       Kind = "project"
	KindPriority      Kind = "priority"
	KindSort          Kind = "sort"
	KindLayout        Kind = "layout"
	KindSearch        Kind = "search"
	KindBulk          Kind = "bulk"
)

// Command is a parsed palette command. Only the field matching Kind is set;
// a bulk command sets either Bulk, applied to the shown tasks, or
// Operation, applied to the whole collection.
type Command struct {
	Kind     Kind
	View     dashboard.View
	Project  model.Project
	Priority model.Priority
	Sort     dashboard.SortKey
	ListMode bool
	Query    string

	Bulk      api.BulkAction
	Operation api.BulkOperation
}

var aliases = map[string]Kind{
	"refresh":       KindRefresh,
	"sync":          KindRefresh,
	"quit":          KindQuit,
	"q":             KindQuit,
	"logout":        KindLogout,
	"new":           KindNew,
	"add":           KindNew,
	"theme":         KindTheme,
	"notifications": KindNotifications,
	"notifs":        KindNotifications,
	"read-all":      KindMarkAllRead,
	"clear":         KindClear,
	"view":          KindView,
	"project":       KindProject,
	"priority":      KindPriority,
	"sort":          KindSort,
	"layout":        KindLayout,
	"search":        KindSearch,
	"done":          KindBulk,
	"undone":        KindBulk,
	"star":          KindBulk,
	"unstar":        KindBulk,
	"delete":        KindBulk,
}

var shownActions = map[string]api.BulkAction{
	"done":   api.BulkMarkDone,
	"undone": api.BulkMarkUndone,
	"star":   api.BulkMarkImportant,
	"unstar": api.BulkMarkUnimportant,
}

// Parse turns palette input into a Command.
func Parse(input string) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	kind, ok := aliases[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
	cmd := Command{Kind: kind}
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToLower(fields[1])
	}

	switch kind {
	case KindView:
		for _, v := range dashboard.Views {
			if string(v) == arg {
				cmd.View = v
				return cmd, nil
			}
		}
		return Command{}, fmt.Errorf("view must be one of all, pending, completed, important")

	case KindProject:
		if arg == "none" {
			return cmd, nil
		}
		p, err := model.ParseProject(arg)
		if err != nil {
			return Command{}, err
		}
		cmd.Project = p

	case KindPriority:
		if arg == "all" || arg == "" {
			return cmd, nil
		}
		p := model.Priority(arg)
		if !p.Valid() {
			return Command{}, fmt.Errorf("priority must be one of all, low, medium, high")
		}
		cmd.Priority = p

	case KindSort:
		for _, k := range dashboard.SortKeys {
			if string(k) == arg {
				cmd.Sort = k
				return cmd, nil
			}
		}
		return Command{}, fmt.Errorf("sort must be one of date, priority, title")

	case KindLayout:
		switch arg {
		case "grid":
		case "list":
			cmd.ListMode = true
		default:
			return Command{}, fmt.Errorf("layout must be grid or list")
		}

	case KindBulk:
		verb := strings.ToLower(fields[0])
		switch {
		case verb == "done" && arg == "all":
			cmd.Operation = api.OpMarkAllDone
		case verb == "delete" && arg == "completed":
			cmd.Operation = api.OpDeleteCompleted
		case verb != "delete" && (arg == "" || arg == "shown"):
			cmd.Bulk = shownActions[verb]
		case verb == "delete":
			return Command{}, fmt.Errorf("delete takes: completed")
		case verb == "done":
			return Command{}, fmt.Errorf("done takes: shown, all")
		default:
			return Command{}, fmt.Errorf("%s takes: shown", verb)
		}

	case KindSearch:
		cmd.Query = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), fields[0]))
	}

	return cmd, nil
}
