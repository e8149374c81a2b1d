package wm

// NotificationKind identifies a manager notification.
type NotificationKind int

const (
	FocusChanged NotificationKind = iota
	PageChanged
	PaneMaximized
	PaneMinimized
	PaneAdded
	PaneRemoved
	ChildFocusChanged
)

var notificationNames = [...]string{
	FocusChanged:      "focus-changed",
	PageChanged:       "page-changed",
	PaneMaximized:     "pane-maximized",
	PaneMinimized:     "pane-minimized",
	PaneAdded:         "pane-added",
	PaneRemoved:       "pane-removed",
	ChildFocusChanged: "child-focus-changed",
}

func (k NotificationKind) String() string {
	if k >= 0 && int(k) < len(notificationNames) {
		return notificationNames[k]
	}
	return "unknown"
}

// Notification is emitted after a state change has been committed.
type Notification struct {
	Kind   NotificationKind
	PaneID string
	Page   int
	// Child is the focused child key for ChildFocusChanged.
	Child string
}

type subscriber struct {
	id int
	fn func(Notification)
}

// Subscribe registers fn for every notification and returns a function that
// removes it. Subscribers run synchronously on the caller's goroutine.
func (m *Manager) Subscribe(fn func(Notification)) (unsubscribe func()) {
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) emit(n Notification) {
	m.log.Debug("notify", "kind", n.Kind.String(), "pane", n.PaneID, "page", n.Page, "child", n.Child)
	for _, s := range append([]subscriber(nil), m.subs...) {
		s.fn(n)
	}
}
