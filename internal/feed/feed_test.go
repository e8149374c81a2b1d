package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// collector gathers chunks from any goroutine.
type collector struct {
	mu     sync.Mutex
	chunks []Chunk
	signal chan struct{}
}

func newCollector() *collector {
	return &collector{signal: make(chan struct{}, 1)}
}

func (c *collector) emit(ch Chunk) {
	c.mu.Lock()
	c.chunks = append(c.chunks, ch)
	c.mu.Unlock()
	select {
	case c.signal <- struct{}{}:
	default:
	}
}

// waitFor blocks until pred holds for the collected chunks.
func (c *collector) waitFor(t *testing.T, pred func([]Chunk) bool) []Chunk {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		c.mu.Lock()
		got := append([]Chunk(nil), c.chunks...)
		c.mu.Unlock()
		if pred(got) {
			return got
		}
		select {
		case <-c.signal:
		case <-deadline:
			t.Fatalf("timed out waiting for chunks, have %d", len(got))
		}
	}
}

func hasChild(child string) func([]Chunk) bool {
	return func(chunks []Chunk) bool {
		for _, c := range chunks {
			if c.Child == child {
				return true
			}
		}
		return false
	}
}

func TestDemo_Plain(t *testing.T) {
	d := NewDemo("web", time.Millisecond, false, nil)
	if d.Children() != nil {
		t.Errorf("Children() = %v, want nil", d.Children())
	}
	if d.State() != "running" {
		t.Errorf("State() = %q, want running", d.State())
	}

	c := newCollector()
	if err := d.Start(context.Background(), c.emit); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer d.Stop()

	got := c.waitFor(t, func(chunks []Chunk) bool { return len(chunks) >= 2 })
	for _, ch := range got {
		if ch.Child != "" || ch.Replace {
			t.Errorf("plain demo chunk = %+v, want pane output", ch)
		}
		if !strings.Contains(ch.Text, "web line") {
			t.Errorf("chunk text = %q", ch.Text)
		}
	}
}

func TestDemo_Panel(t *testing.T) {
	d := NewDemo("db", time.Millisecond, true, nil)
	if got := d.Children(); len(got) != 3 || got[0] != ChildMain {
		t.Errorf("Children() = %v, want %v", got, PanelChildren)
	}

	c := newCollector()
	if err := d.Start(context.Background(), c.emit); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer d.Stop()

	got := c.waitFor(t, func(chunks []Chunk) bool {
		return hasChild(ChildMain)(chunks) && hasChild(ChildMetrics)(chunks)
	})
	if got[0].Child != ChildInfo || !got[0].Replace {
		t.Errorf("first chunk = %+v, want the info replace", got[0])
	}
	for _, ch := range got {
		if ch.Child == ChildMetrics && (!ch.Replace || !strings.Contains(ch.Text, "CPU")) {
			t.Errorf("metrics chunk = %+v", ch)
		}
	}
}

func TestDemo_StopEndsStreams(t *testing.T) {
	d := NewDemo("web", time.Millisecond, false, nil)
	var n atomic.Int64
	if err := d.Start(context.Background(), func(Chunk) { n.Add(1) }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	d.Stop()

	after := n.Load()
	time.Sleep(10 * time.Millisecond)
	if n.Load() != after {
		t.Error("chunks emitted after Stop")
	}
	d.Stop() // idempotent
}

func TestRunner_StartTwice(t *testing.T) {
	r := NewRunner("test", nil)
	block := NewServiceFunc("block", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err := r.Start(context.Background(), block); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Start(context.Background(), block); err == nil {
		t.Error("second Start() should fail")
	}
	r.Stop()
	if err := r.Start(context.Background(), block); err == nil {
		t.Error("Start() after Stop() should fail")
	}
}

func TestRunner_StopBeforeStart(t *testing.T) {
	r := NewRunner("test", nil)
	r.Stop()
}

func TestRunner_RestartsFailedService(t *testing.T) {
	r := NewRunner("test", nil)
	var runs atomic.Int64
	done := make(chan struct{})
	svc := NewServiceFunc("flaky", func(ctx context.Context) error {
		if runs.Add(1) == 2 {
			close(done)
		}
		if runs.Load() >= 2 {
			<-ctx.Done()
			return ctx.Err()
		}
		return errors.New("boom")
	})
	if err := r.Start(context.Background(), svc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("failed service was not restarted")
	}
}

func TestSanitizeError(t *testing.T) {
	live := context.Background()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name        string
		ctx         context.Context
		err         error
		wantNil     bool
		wantCtxErr  bool
		wantNoRetry bool
	}{
		{name: "nil", ctx: live, err: nil, wantNil: true},
		{name: "plain error", ctx: live, err: errors.New("boom")},
		{name: "ctx done", ctx: cancelled, err: errors.New("boom"), wantCtxErr: true},
		{name: "foreign cancel", ctx: live, err: context.Canceled},
		{name: "foreign cancel no restart", ctx: live, err: errors.Join(context.Canceled, suture.ErrDoNotRestart), wantNoRetry: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeError(tt.ctx, tt.err)
			if tt.wantNil {
				if got != nil {
					t.Errorf("sanitizeError() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("sanitizeError() = nil")
			}
			if isCtx := errors.Is(got, context.Canceled); isCtx != tt.wantCtxErr {
				t.Errorf("errors.Is(context.Canceled) = %v, want %v", isCtx, tt.wantCtxErr)
			}
			if noRetry := errors.Is(got, suture.ErrDoNotRestart); noRetry != tt.wantNoRetry {
				t.Errorf("errors.Is(ErrDoNotRestart) = %v, want %v", noRetry, tt.wantNoRetry)
			}
		})
	}
}
