// Package cli wires the tasko command line: the dashboard as the default
// action and the account and reporting subcommands around it.
package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/app"
	"github.com/nhle/tasko/internal/credential"
	"github.com/nhle/tasko/internal/logging"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// sessionStore persists session cookies between runs.
type sessionStore interface {
	app.SessionStore
	Load(baseURL string) ([]*http.Cookie, error)
}

type keyringStore struct{}

func (keyringStore) Load(baseURL string) ([]*http.Cookie, error) {
	return credential.LoadSession(baseURL)
}

func (keyringStore) Save(baseURL string, cookies []*http.Cookie) error {
	return credential.SaveSession(baseURL, cookies)
}

func (keyringStore) Clear(baseURL string) error {
	return credential.ClearSession(baseURL)
}

// App carries flags and the resources built from them.
type App struct {
	ConfigPath string
	Server     string

	cfg *model.AppConfig
	log *zap.SugaredLogger

	sessions sessionStore
	prompt   prompter
	now      func() time.Time
}

// NewRootCmd builds the tasko command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{
		sessions: keyringStore{},
		prompt:   huhPrompter{},
		now:      time.Now,
	})
}

func newRootCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tasko",
		Short:        "Tasko dashboard in your terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the dashboard
  tasko

  # Sign in without opening the dashboard
  tasko login --email ada@example.com

  # Print pending work tasks
  tasko tasks --view pending --project work
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.log != nil {
				_ = a.log.Sync()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.runTUI()
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", model.DefaultConfigPath(), "Path to the config file")
	cmd.PersistentFlags().StringVar(&a.Server, "server", "", "Tasko base URL (overrides server.base_url)")

	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newSignupCmd(a))
	cmd.AddCommand(newResetPasswordCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newTasksCmd(a))
	cmd.AddCommand(newBulkCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads the config and builds the logger every command shares.
func (a *App) setup() error {
	cfg, err := model.LoadConfig(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.Server != "" {
		cfg.Server.BaseURL = strings.TrimRight(a.Server, "/")
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	theme.Apply(theme.Mode(cfg.Display.Theme))
	return nil
}

// client returns an API client for the configured server. With restore set
// the stored session cookies are installed.
func (a *App) client(restore bool) (*api.Client, error) {
	timeout := time.Duration(a.cfg.Server.TimeoutSec) * time.Second
	c, err := api.NewClient(a.cfg.Server.BaseURL, timeout, a.log)
	if err != nil {
		return nil, err
	}
	if !restore {
		return c, nil
	}

	cookies, err := a.sessions.Load(c.BaseURL())
	switch {
	case err == nil:
		c.SetCookies(cookies)
	case errors.Is(err, credential.ErrNoSession):
	default:
		a.log.Warnw("loading stored session failed", "error", err)
	}
	return c, nil
}

func (a *App) runTUI() error {
	unlock, err := app.Lock(model.DefaultConfigDir())
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	c, err := a.client(true)
	if err != nil {
		return err
	}

	a.log.Infow("starting dashboard", "server", c.BaseURL())
	m := app.New(app.Options{
		Client:     c,
		Config:     a.cfg,
		ConfigPath: a.ConfigPath,
		Log:        a.log,
		Sessions:   a.sessions,
		Now:        a.now,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tasko version",
		Args:  cobra.NoArgs,
		// The version needs no config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tasko %s\n", Version)
			return nil
		},
	}
}
