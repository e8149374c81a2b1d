package feed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/thejerf/suture/v4"
)

// Child names used by panel feeds. The panel grid sorts "main" first.
const (
	ChildMain    = "main"
	ChildMetrics = "metrics"
	ChildInfo    = "info"
)

// PanelChildren are the sub-views of a panel feed, in display order.
var PanelChildren = []string{ChildMain, ChildMetrics, ChildInfo}

// Demo is a synthetic feed that writes a numbered line every interval. A
// panel demo also fills metrics and info sub-views.
type Demo struct {
	name     string
	interval time.Duration
	panel    bool
	runner   *Runner
	started  time.Time
}

// NewDemo returns a demo feed.
func NewDemo(name string, interval time.Duration, panel bool, log *slog.Logger) *Demo {
	if interval <= 0 {
		interval = time.Second
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Demo{
		name:     name,
		interval: interval,
		panel:    panel,
		runner:   NewRunner("demo-"+name, log.With("feed", name)),
	}
}

func (d *Demo) Children() []string {
	if !d.panel {
		return nil
	}
	return PanelChildren
}

func (d *Demo) State() string { return "running" }

func (d *Demo) Start(ctx context.Context, emit Emitter) error {
	d.started = time.Now()
	mainChild := ""
	if d.panel {
		mainChild = ChildMain
		emit(Chunk{Child: ChildInfo, Replace: true, Text: d.info()})
	}

	services := []suture.Service{
		NewServiceFunc(d.name+"/main", func(ctx context.Context) error {
			return tick(ctx, d.interval, func(n int) {
				emit(Chunk{Child: mainChild, Text: fmt.Sprintf("%s %s line %d\n", time.Now().Format("15:04:05"), d.name, n)})
			})
		}),
	}
	if d.panel {
		services = append(services, NewServiceFunc(d.name+"/metrics", func(ctx context.Context) error {
			return tick(ctx, d.interval, func(n int) {
				emit(Chunk{Child: ChildMetrics, Replace: true, Text: demoMetrics(n)})
			})
		}))
	}
	return d.runner.Start(ctx, services...)
}

func (d *Demo) Stop() { d.runner.Stop() }

func (d *Demo) info() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "name:     %s\n", d.name)
	sb.WriteString("source:   demo\n")
	fmt.Fprintf(&sb, "interval: %s\n", d.interval)
	fmt.Fprintf(&sb, "started:  %s\n", d.started.Format(time.RFC3339))
	return sb.String()
}

// demoMetrics renders a deterministic fake CPU and memory reading.
func demoMetrics(n int) string {
	cpu := 50 + 40*math.Sin(float64(n)/5)
	mem := 128 + 32*math.Cos(float64(n)/7)
	return fmt.Sprintf("CPU  %5.1f%%\nMEM  %5.1f MiB\nTICK %d\n", cpu, mem, n)
}

// tick calls fn with 1, 2, 3, ... every interval until ctx ends.
func tick(ctx context.Context, interval time.Duration, fn func(n int)) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			fn(n)
		}
	}
}
