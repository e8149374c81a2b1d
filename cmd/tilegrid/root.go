package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/samuelreed/tilegrid/internal/config"
	"github.com/samuelreed/tilegrid/internal/tui"
	"github.com/samuelreed/tilegrid/internal/wm"
)

const (
	sourceDocker = "docker"
	sourceDemo   = "demo"
)

type rootOptions struct {
	configPath string
	source     string
	project    string
	all        bool
	panes      int
	debug      bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tilegrid [container...]",
		Short: "Tile live container feeds into a paginated terminal grid",
		Long: "tilegrid opens one pane per container (or demo feed) and tiles them into pages.\n" +
			"Arrow keys move focus, [ and ] change page, m maximizes the focused pane and\n" +
			"g shows a maximized container's logs, metrics and info side by side.",
		Version:      versionString(),
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default searches $XDG_CONFIG_HOME/tilegrid and .)")

	f = cmd.Flags()
	f.StringVarP(&opts.source, "source", "s", sourceDocker, "pane source: docker or demo")
	f.StringVarP(&opts.project, "project", "p", "", "only containers of this compose project")
	f.BoolVarP(&opts.all, "all", "a", false, "include stopped containers")
	f.IntVarP(&opts.panes, "panes", "n", 0, "number of panes to open (0 opens every match)")
	f.BoolVar(&opts.debug, "debug", false, "log at debug level")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to this file")

	cmd.AddCommand(newLayoutCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newKeysCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// applyFlags lets explicitly set flags override the loaded config.
func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) error {
	switch opts.source {
	case sourceDocker, sourceDemo:
	default:
		return fmt.Errorf("invalid source %q (must be %s or %s)", opts.source, sourceDocker, sourceDemo)
	}
	if opts.panes < 0 {
		return fmt.Errorf("--panes must not be negative")
	}

	flags := cmd.Flags()
	if flags.Changed("project") {
		cfg.Docker.Project = opts.project
	}
	if flags.Changed("all") {
		cfg.Docker.All = opts.all
	}
	if flags.Changed("panes") && opts.source == sourceDemo {
		cfg.Demo.Panes = opts.panes
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}
	return nil
}

func run(cmd *cobra.Command, opts *rootOptions, args []string) error {
	loader := config.NewLoader(opts.configPath, nil)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, opts, cfg); err != nil {
		return err
	}

	panel := tui.NewLogPanelModel()
	log, closeLog, err := setupLogging(cfg, panel)
	if err != nil {
		return err
	}
	defer closeLog()
	loader.SetLogger(log.With("component", "config"))
	log.Info("starting tilegrid", "version", Version, "source", opts.source, "config", loader.File())

	layoutCfg, err := cfg.Layout.ToLayout()
	if err != nil {
		return err
	}
	mgr, err := wm.New(layoutCfg,
		wm.WithLogger(log.With("component", "wm")),
		wm.WithPanelOrder(cfg.PanelOrder()),
	)
	if err != nil {
		return err
	}
	dispatcher := wm.NewDispatcher(mgr, cfg.Pacing())

	ctx, stop := signal.NotifyContext(rootContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := newSource(opts.source, cfg, args, opts.panes, log)
	if err != nil {
		return err
	}
	defer src.Close()

	tui.SetVersionInfo(Version, CommitHash)
	app := tui.NewAppModel(ctx, dispatcher, tui.Options{
		Logger:            log.With("component", "tui"),
		LogPanel:          panel,
		Loader:            src.Load,
		Source:            src.Name(),
		ActivationStagger: cfg.Timing.ActivationStagger,
	})

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	tui.SetProgram(p)

	loader.Watch(func(c *config.Config) {
		lc, err := c.Layout.ToLayout()
		if err != nil {
			return
		}
		p.Send(tui.ReconfigureMsg{Config: lc})
	})

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Info("interrupted, shutting down")
			return nil
		}
		return fmt.Errorf("running program: %w", err)
	}
	log.Info("tilegrid exited")
	return nil
}

// rootContext is used when a command runs outside Execute, as in tests.
func rootContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
