package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
)

// ServiceFunc adapts a function to a named suture service.
type ServiceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewServiceFunc returns a service named name that runs fn.
func NewServiceFunc(name string, fn func(ctx context.Context) error) ServiceFunc {
	return ServiceFunc{name: name, fn: fn}
}

func (s ServiceFunc) String() string { return s.name }

// Serve runs the function. Context errors not caused by ctx are rewrapped
// so the supervisor restarts the service instead of treating it as stopped.
func (s ServiceFunc) Serve(ctx context.Context) error {
	return sanitizeError(ctx, s.fn(ctx))
}

func sanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, suture.ErrDoNotRestart) {
		return errors.Join(suture.ErrDoNotRestart, errors.New(err.Error()))
	}
	return errors.New(err.Error())
}

// eventHook logs supervisor events.
func eventHook(log *slog.Logger) suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			log.Warn("stream did not stop in time", "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventServicePanic:
			log.Error("stream panicked", "service", e.ServiceName, "panic", e.PanicMsg)
		case suture.EventServiceTerminate:
			log.Warn("stream failed", "supervisor", e.SupervisorName, "service", e.ServiceName, "error", e.Err)
		case suture.EventBackoff:
			log.Debug("stream backing off", "supervisor", e.SupervisorName)
		case suture.EventResume:
			log.Debug("stream resumed", "supervisor", e.SupervisorName)
		}
	}
}

// Runner supervises the streams of one feed. Failed streams are restarted
// with backoff until Stop is called or the start context ends.
type Runner struct {
	name string
	log  *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    <-chan error
	stopped bool
}

// NewRunner returns a runner whose supervisor is named name.
func NewRunner(name string, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{name: name, log: log}
}

// Start runs services under a new supervisor. Starting a running or stopped
// runner is an error.
func (r *Runner) Start(ctx context.Context, services ...suture.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return errors.New("feed: runner stopped")
	}
	if r.cancel != nil {
		return errors.New("feed: runner already started")
	}

	sup := suture.New(r.name, suture.Spec{
		EventHook: eventHook(r.log),
		Timeout:   2 * time.Second,
	})
	for _, s := range services {
		sup.Add(s)
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = sup.ServeBackground(ctx)
	return nil
}

// Stop cancels the streams and waits for the supervisor to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.stopped = true
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
