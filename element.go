package missioncontrol

import "sync"

// ElementKind identifies the kind of element a refresher renders into a
// [Container]. Refreshers only ever clear elements of their own kind.
type ElementKind string

const (
	// ElementRow is a table row made of [Cell] values.
	ElementRow ElementKind = "row"

	// ElementButton is a labelled button, optionally wrapped in a link or
	// navigating to a URL when activated.
	ElementButton ElementKind = "button"
)

// Cell is a single table cell. When Href is set the cell text is a link.
type Cell struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// Element is one rendered item of a panel.
type Element struct {
	// Kind is the element kind (row or button).
	Kind ElementKind `json:"kind"`

	// Class holds space-separated style classes, e.g. "btn btn-sm btn-danger".
	Class string `json:"class,omitempty"`

	// Cells are the table cells of a row element.
	Cells []Cell `json:"cells,omitempty"`

	// Label is the text of a button element.
	Label string `json:"label,omitempty"`

	// Title is optional hover text.
	Title string `json:"title,omitempty"`

	// Href is the target of a link wrapping the button.
	Href string `json:"href,omitempty"`

	// Navigate is the URL the browser navigates to when the button is activated.
	Navigate string `json:"navigate,omitempty"`
}

// Container is the render target of a refresher.
//
// A refresh first calls RemoveAll for the kind it renders and then Append
// for every fresh element, so a container only ever reflects the latest
// payload.
type Container interface {
	// RemoveAll removes every element of the given kind.
	RemoveAll(kind ElementKind)

	// Append adds an element after all existing elements.
	Append(el Element)
}

// Panel is an in-memory [Container] safe for concurrent use.
type Panel struct {
	mu       sync.RWMutex
	elements []Element
}

// NewPanel creates an empty [Panel].
func NewPanel() *Panel {
	return &Panel{}
}

// RemoveAll implements [Container].
func (p *Panel) RemoveAll(kind ElementKind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.elements[:0]
	for _, el := range p.elements {
		if el.Kind != kind {
			kept = append(kept, el)
		}
	}
	// clear the tail so dropped elements can be collected
	for i := len(kept); i < len(p.elements); i++ {
		p.elements[i] = Element{}
	}
	p.elements = kept
}

// Append implements [Container].
func (p *Panel) Append(el Element) {
	p.mu.Lock()
	p.elements = append(p.elements, copyElement(el))
	p.mu.Unlock()
}

// Elements returns a copy of the panel's current elements in render order.
func (p *Panel) Elements() []Element {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cp := make([]Element, len(p.elements))
	for i, el := range p.elements {
		cp[i] = copyElement(el)
	}
	return cp
}

// Len returns the number of elements currently in the panel.
func (p *Panel) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.elements)
}

func copyElement(el Element) Element {
	if el.Cells != nil {
		el.Cells = append([]Cell(nil), el.Cells...)
	}
	return el
}
