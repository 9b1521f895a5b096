package store

import "time"

// Cell is one table cell of a stored row.
type Cell struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// Element is the storage representation of one rendered panel element.
type Element struct {
	Kind     string `json:"kind"`
	Class    string `json:"class,omitempty"`
	Cells    []Cell `json:"cells,omitempty"`
	Label    string `json:"label,omitempty"`
	Title    string `json:"title,omitempty"`
	Href     string `json:"href,omitempty"`
	Navigate string `json:"navigate,omitempty"`
}

// PanelSnapshot is the latest rendered state of one dashboard panel.
//
// PanelSnapshot is optimised for JSON serialisation (used by the REST API
// and SSE) and is decoupled from the root package's render types so both can
// evolve independently.
type PanelSnapshot struct {
	// Name uniquely identifies the panel.
	Name string `json:"name"`

	// Title is the panel heading.
	Title string `json:"title"`

	// Kind is the widget kind, e.g. "build_queue".
	Kind string `json:"kind"`

	// Order is the panel's position on the dashboard.
	Order int `json:"order"`

	// Elements are the rendered rows or buttons.
	Elements []Element `json:"elements"`

	// RefreshedAt is when the last refresh attempt finished.
	RefreshedAt time.Time `json:"refreshed_at"`

	// DurationMs is how long the last refresh took.
	DurationMs int64 `json:"duration_ms"`

	// Error holds the last refresh error. When set, Elements are the stale
	// elements of the last successful refresh.
	Error *string `json:"error"`
}

// Store stores panel snapshots and fans updates out to subscribers.
//
// Implementations must be safe for concurrent access.
type Store interface {
	// Update stores a snapshot keyed by Name and notifies all subscribers.
	Update(snapshot PanelSnapshot)

	// Get returns the snapshot with the given name.
	Get(name string) (PanelSnapshot, bool)

	// GetAll returns all snapshots ordered by Order, then Name.
	// The returned slice is a copy.
	GetAll() []PanelSnapshot

	// Subscribe returns a buffered channel of updates. Slow consumers may
	// miss updates. Callers must call Unsubscribe when done.
	Subscribe() <-chan PanelSnapshot

	// Unsubscribe removes a subscription and closes its channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan PanelSnapshot)
}
