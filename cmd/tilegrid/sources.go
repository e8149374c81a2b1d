package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samuelreed/tilegrid/internal/config"
	"github.com/samuelreed/tilegrid/internal/docker"
	"github.com/samuelreed/tilegrid/internal/feed"
	"github.com/samuelreed/tilegrid/internal/tui"
)

// source discovers the panes of a session.
type source interface {
	Name() string
	Load(ctx context.Context) ([]tui.PaneSpec, error)
	Close()
}

func newSource(name string, cfg *config.Config, args []string, limit int, log *slog.Logger) (source, error) {
	switch name {
	case sourceDemo:
		return &demoSource{cfg: cfg.Demo, log: log}, nil
	case sourceDocker:
		client, err := docker.NewClient()
		if err != nil {
			return nil, fmt.Errorf("docker: %w", err)
		}
		return &dockerSource{client: client, cfg: cfg.Docker, names: args, limit: limit, log: log}, nil
	}
	return nil, fmt.Errorf("unknown source %q", name)
}

// demoNames are the keys of the synthetic panes; extra panes are numbered.
var demoNames = []string{"api", "worker", "db", "cache", "queue", "web", "cron", "proxy"}

type demoSource struct {
	cfg config.DemoConfig
	log *slog.Logger
}

func (s *demoSource) Name() string { return "demo feeds" }

func (s *demoSource) Close() {}

// Load opens the configured number of demo panes. Every third pane is a
// panel with children so the panel grid has something to show.
func (s *demoSource) Load(context.Context) ([]tui.PaneSpec, error) {
	specs := make([]tui.PaneSpec, 0, s.cfg.Panes)
	for i := range s.cfg.Panes {
		name := fmt.Sprintf("svc-%d", i+1)
		if i < len(demoNames) {
			name = demoNames[i]
		}
		specs = append(specs, tui.PaneSpec{
			Key:   name,
			Title: name + " (demo)",
			Feed:  feed.NewDemo(name, s.cfg.Interval, i%3 == 0, s.log),
		})
	}
	return specs, nil
}

type dockerSource struct {
	client *docker.Client
	cfg    config.DockerConfig
	names  []string
	limit  int
	log    *slog.Logger
}

func (s *dockerSource) Name() string {
	if s.cfg.Project != "" {
		return "docker project " + s.cfg.Project
	}
	return "docker"
}

func (s *dockerSource) Close() {
	if err := s.client.Close(); err != nil {
		s.log.Debug("closing docker client", "error", err)
	}
}

// Load opens one pane per discovered container.
func (s *dockerSource) Load(ctx context.Context) ([]tui.PaneSpec, error) {
	return dockerSpecs(ctx, s.client, s.cfg, s.names, s.limit, s.log)
}

func dockerSpecs(ctx context.Context, client docker.DockerClient, cfg config.DockerConfig, names []string, limit int, log *slog.Logger) ([]tui.PaneSpec, error) {
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("docker is not reachable: %w", err)
	}
	found, err := docker.Discover(ctx, client, docker.DiscoverOptions{
		ListOptions: docker.ListOptions{All: cfg.All, Project: cfg.Project},
		Names:       names,
		Limit:       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("discover containers: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no matching containers")
	}

	opts := docker.PanelOptions{
		Tail:          cfg.Tail,
		StatsInterval: cfg.StatsInterval,
		InfoInterval:  cfg.InfoInterval,
		Panel:         cfg.Panels,
	}
	specs := make([]tui.PaneSpec, 0, len(found))
	for _, d := range found {
		p := docker.NewPanel(client, d, opts, log)
		specs = append(specs, tui.PaneSpec{Key: p.Key(), Title: p.Title(), Feed: p})
	}
	log.Info("containers discovered", "count", len(specs))
	return specs, nil
}
