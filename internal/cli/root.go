// Package cli implements the doctester command line.
package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/artpar/doctester/internal/app"
	"github.com/artpar/doctester/internal/config"
	"github.com/artpar/doctester/internal/logging"
	"github.com/artpar/doctester/internal/tui/views"
)

type rootOptions struct {
	configPath string
	fragment   string
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "doctester [URL]",
		Short: "Browse and test generated API documentation",
		Long: "doctester loads an auto-generated API documentation page, lets you browse its handlers,\n" +
			"run the live test request of each method and log in through the page's auth test.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTUI(cmd, opts, args[0])
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Config file")
	cmd.Flags().StringVarP(&opts.fragment, "fragment", "f", "", "Fragment to restore instead of the URL's")

	cmd.AddCommand(
		newRunCommand(opts),
		newLoginCommand(opts),
		newTreeCommand(opts),
		newConfigCommand(),
	)

	return cmd
}

// openApp loads the configuration and builds the App. Logs go to logOut
// unless the config names a log file.
func openApp(ctx context.Context, opts *rootOptions, logOut io.Writer) (*app.App, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg, app.WithLogger(logger), app.WithCloser(closer))
	if err != nil {
		closer.Close()
		return nil, err
	}
	return a, nil
}

// tuiModel wraps the MainView for bubbletea.
type tuiModel struct {
	view *views.MainView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.MainView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

func runTUI(cmd *cobra.Command, opts *rootOptions, rawURL string) error {
	ctx := cmd.Context()

	// the terminal belongs to the TUI, so logs only go to a configured file
	a, err := openApp(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.Open(ctx, rawURL, opts.fragment)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tuiModel{view: views.NewMainView(ctx, session)}, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
