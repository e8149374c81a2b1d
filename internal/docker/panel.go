package docker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/samuelreed/tilegrid/internal/feed"
)

// Default stream settings.
const (
	DefaultTail          = 200
	DefaultStatsInterval = 2 * time.Second
	DefaultInfoInterval  = 5 * time.Second
)

// PanelOptions configure a container feed.
type PanelOptions struct {
	// Tail is the number of log lines replayed on start; negative replays
	// everything.
	Tail          int
	StatsInterval time.Duration
	InfoInterval  time.Duration
	// Panel splits the feed into main, metrics and info sub-views.
	Panel bool
}

func (o PanelOptions) withDefaults() PanelOptions {
	if o.StatsInterval <= 0 {
		o.StatsInterval = DefaultStatsInterval
	}
	if o.InfoInterval <= 0 {
		o.InfoInterval = DefaultInfoInterval
	}
	return o
}

// Panel is the content feed of one container. Logs are followed into the
// main view; a panel feed also polls stats into metrics and inspect output
// into info. Every stream runs as a supervised service and is restarted
// with backoff when it fails.
type Panel struct {
	client  DockerClient
	details ContainerDetails
	opts    PanelOptions
	log     *slog.Logger
	runner  *feed.Runner

	mu    sync.Mutex
	state string
}

var (
	_ feed.Feed   = (*Panel)(nil)
	_ feed.Stater = (*Panel)(nil)
)

// NewPanel returns the feed for container d.
func NewPanel(client DockerClient, d ContainerDetails, opts PanelOptions, log *slog.Logger) *Panel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("container", d.DisplayName(), "id", shortID(d.ID))
	return &Panel{
		client:  client,
		details: d,
		opts:    opts.withDefaults(),
		log:     log,
		runner:  feed.NewRunner("container-"+d.DisplayName(), log),
		state:   d.State,
	}
}

// Key returns the pane key for the container.
func (p *Panel) Key() string { return p.details.DisplayName() }

// Title returns the pane title: the display name and the image.
func (p *Panel) Title() string {
	if p.details.Image == "" {
		return p.Key()
	}
	return p.Key() + " (" + p.details.Image + ")"
}

func (p *Panel) Children() []string {
	if !p.opts.Panel {
		return nil
	}
	return feed.PanelChildren
}

// State returns the last known container state.
func (p *Panel) State() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Panel) setState(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s != p.state {
		p.log.Info("container state changed", "from", p.state, "to", s)
	}
	p.state = s
}

// Start begins streaming. It returns once the streams are running.
func (p *Panel) Start(ctx context.Context, emit feed.Emitter) error {
	logChild := ""
	if p.opts.Panel {
		logChild = feed.ChildMain
		emit(feed.Chunk{Child: feed.ChildInfo, Replace: true, Text: formatInfo(&p.details)})
	}

	id := p.details.ID
	tail := p.opts.Tail
	services := []suture.Service{
		feed.NewServiceFunc(p.Key()+"/logs", func(ctx context.Context) error {
			err := p.client.StreamLogs(ctx, id, tail, chunkWriter{emit: emit, child: logChild})
			// A restarted stream only follows new output.
			tail = 0
			return err
		}),
		feed.NewServiceFunc(p.Key()+"/inspect", func(ctx context.Context) error {
			return poll(ctx, p.opts.InfoInterval, func() {
				d, err := p.client.InspectContainer(ctx, id)
				if err != nil {
					p.log.Debug("inspect failed", "error", err)
					return
				}
				p.setState(d.State)
				if p.opts.Panel {
					emit(feed.Chunk{Child: feed.ChildInfo, Replace: true, Text: formatInfo(d)})
				}
			})
		}),
	}
	if p.opts.Panel {
		services = append(services, feed.NewServiceFunc(p.Key()+"/stats", func(ctx context.Context) error {
			return poll(ctx, p.opts.StatsInterval, func() {
				if p.State() != "running" {
					emit(feed.Chunk{Child: feed.ChildMetrics, Replace: true, Text: "container " + p.State() + "\n"})
					return
				}
				s, err := p.client.Stats(ctx, id)
				if err != nil {
					p.log.Debug("stats failed", "error", err)
					emit(feed.Chunk{Child: feed.ChildMetrics, Replace: true, Text: "stats unavailable\n"})
					return
				}
				emit(feed.Chunk{Child: feed.ChildMetrics, Replace: true, Text: formatMetrics(s)})
			})
		}))
	}

	p.log.Debug("starting streams", "count", len(services))
	return p.runner.Start(ctx, services...)
}

// Stop ends every stream and waits for them.
func (p *Panel) Stop() { p.runner.Stop() }

// chunkWriter turns log bytes into chunks for one sub-view.
type chunkWriter struct {
	emit  feed.Emitter
	child string
}

func (w chunkWriter) Write(b []byte) (int, error) {
	w.emit(feed.Chunk{Child: w.child, Text: string(b)})
	return len(b), nil
}

// poll calls fn now and then every interval until ctx ends.
func poll(ctx context.Context, interval time.Duration, fn func()) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		fn()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func formatMetrics(s *ContainerStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CPU   %6.1f%%\n", s.CPUPercent)
	if s.MemoryLimit > 0 {
		fmt.Fprintf(&sb, "MEM   %s / %s (%.1f%%)\n", FormatBytes(s.MemoryUsage), FormatBytes(s.MemoryLimit), s.MemoryPercent)
	} else {
		fmt.Fprintf(&sb, "MEM   %s\n", FormatBytes(s.MemoryUsage))
	}
	fmt.Fprintf(&sb, "NET   rx %s  tx %s\n", FormatBytes(s.NetRx), FormatBytes(s.NetTx))
	fmt.Fprintf(&sb, "PIDS  %d\n", s.PIDs)
	return sb.String()
}

func formatInfo(d *ContainerDetails) string {
	var sb strings.Builder
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&sb, "%-9s %s\n", k+":", v)
		}
	}
	row("name", d.Name)
	row("id", shortID(d.ID))
	row("image", d.Image)
	row("state", d.State)
	row("health", d.Health)
	if !d.StartedAt.IsZero() {
		row("started", d.StartedAt.Format(time.RFC3339))
	}
	if d.RestartCount > 0 {
		row("restarts", fmt.Sprint(d.RestartCount))
	}
	row("project", d.Labels[ComposeProjectLabel])
	row("service", d.Labels[ComposeServiceLabel])
	row("command", d.Command)
	for _, m := range d.Mounts {
		row("mount", m)
	}
	return sb.String()
}
