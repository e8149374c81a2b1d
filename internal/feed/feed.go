// Package feed defines the contract between content sources and the panes
// that display them.
package feed

import "context"

// Chunk is one piece of output for a pane.
type Chunk struct {
	// Child names the sub-view the text belongs to. Empty targets the pane.
	Child string
	Text  string
	// Replace swaps the view's content instead of appending to it.
	Replace bool
}

// Emitter receives chunks. It may be called from any goroutine.
type Emitter func(Chunk)

// Feed streams content into one pane.
type Feed interface {
	// Children names the sub-views the feed writes to, or nil for a feed
	// that writes to the pane directly.
	Children() []string
	// Start begins streaming. Streams run until ctx is done or Stop is
	// called; Start itself returns once they are running.
	Start(ctx context.Context, emit Emitter) error
	// Stop ends the streams. It is safe to call more than once and before
	// Start.
	Stop()
}

// Stater is implemented by feeds whose source has a lifecycle state, such
// as a container's "running" or "exited".
type Stater interface {
	State() string
}
