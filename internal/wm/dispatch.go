package wm

import (
	"fmt"
	"time"

	"github.com/samuelreed/tilegrid/internal/layout"
)

// Event is an input routed to the manager by a Dispatcher.
type Event interface{ event() }

// FocusEvent moves focus in a direction.
type FocusEvent struct{ Dir layout.Direction }

// FocusPaneEvent focuses a pane by id, switching page when needed.
type FocusPaneEvent struct{ ID string }

// PageEvent shows a page.
type PageEvent struct{ Page int }

// PageStepEvent moves Delta pages with wraparound.
type PageStepEvent struct{ Delta int }

// MaximizeEvent maximizes ID, or toggles the focused pane when ID is empty.
type MaximizeEvent struct {
	ID        string
	PanelGrid bool
}

// MinimizeEvent minimizes ID, or the maximized pane when ID is empty.
type MinimizeEvent struct{ ID string }

// RemoveEvent removes ID, or the focused pane when ID is empty.
type RemoveEvent struct{ ID string }

// ResizeEvent reports a new surface size. Bursts are debounced.
type ResizeEvent struct{ Size layout.Size }

// FlushResizeEvent applies a debounced resize.
type FlushResizeEvent struct {
	Seq  uint64
	Size layout.Size
}

// ActivatedEvent reports a finished activation.
type ActivatedEvent struct {
	ID  string
	Err error
}

func (FocusEvent) event()       {}
func (FocusPaneEvent) event()   {}
func (PageEvent) event()        {}
func (PageStepEvent) event()    {}
func (MaximizeEvent) event()    {}
func (MinimizeEvent) event()    {}
func (RemoveEvent) event()      {}
func (ResizeEvent) event()      {}
func (FlushResizeEvent) event() {}
func (ActivatedEvent) event()   {}

// Followup asks the event loop to deliver Event after a delay.
type Followup struct {
	After time.Duration
	Event Event
}

// Pacing holds the input pacing windows. Zero disables a window.
type Pacing struct {
	ResizeDebounce time.Duration
	FocusThrottle  time.Duration
	PageThrottle   time.Duration
}

// DefaultPacing returns the default pacing windows.
func DefaultPacing() Pacing {
	return Pacing{
		ResizeDebounce: DefaultResizeDebounce,
		FocusThrottle:  DefaultFocusThrottle,
		PageThrottle:   DefaultPageThrottle,
	}
}

// Dispatcher routes events from a single event loop to a Manager, applying
// the resize debounce and the focus and page throttles.
type Dispatcher struct {
	m      *Manager
	pacing Pacing
	resize Debouncer
	focus  *Throttle
	page   *Throttle
}

// NewDispatcher returns a dispatcher for m.
func NewDispatcher(m *Manager, p Pacing) *Dispatcher {
	return &Dispatcher{
		m:      m,
		pacing: p,
		focus:  NewThrottle(p.FocusThrottle),
		page:   NewThrottle(p.PageThrottle),
	}
}

// Manager returns the dispatcher's manager.
func (d *Dispatcher) Manager() *Manager { return d.m }

// Dispatch applies ev. A non-nil Followup must be delivered back through
// Dispatch after its delay.
func (d *Dispatcher) Dispatch(ev Event) (*Followup, error) {
	m := d.m
	switch ev := ev.(type) {
	case FocusEvent:
		if !d.focus.Allow() {
			m.log.Debug("focus throttled", "dir", ev.Dir.String())
			return nil, nil
		}
		return nil, m.FocusDirection(ev.Dir)

	case FocusPaneEvent:
		return nil, m.Focus(ev.ID)

	case PageEvent:
		if !d.page.Allow() {
			return nil, nil
		}
		return nil, m.ShowPage(ev.Page)

	case PageStepEvent:
		if !d.page.Allow() {
			return nil, nil
		}
		return nil, m.stepPage(ev.Delta)

	case MaximizeEvent:
		if ev.ID == "" {
			return nil, m.ToggleMaximize(ev.PanelGrid)
		}
		return nil, m.Maximize(ev.ID, ev.PanelGrid)

	case MinimizeEvent:
		id := ev.ID
		if id == "" {
			id = m.maximized
		}
		if id == "" {
			return nil, nil
		}
		return nil, m.Minimize(id)

	case RemoveEvent:
		id := ev.ID
		if id == "" {
			id = m.focused
		}
		if id == "" {
			return nil, nil
		}
		return nil, m.RemovePane(id)

	case ResizeEvent:
		if d.pacing.ResizeDebounce <= 0 {
			m.OnResize(ev.Size)
			return nil, nil
		}
		seq := d.resize.Next()
		return &Followup{
			After: d.pacing.ResizeDebounce,
			Event: FlushResizeEvent{Seq: seq, Size: ev.Size},
		}, nil

	case FlushResizeEvent:
		if d.resize.Current(ev.Seq) {
			m.OnResize(ev.Size)
		}
		return nil, nil

	case ActivatedEvent:
		return nil, m.MarkActivated(ev.ID, ev.Err)
	}
	return nil, fmt.Errorf("unhandled event %T", ev)
}
