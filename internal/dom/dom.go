// Package dom is the document capability the admin glue runs against.
//
// Page code never talks to a browser directly. It receives a Document, looks
// elements up by selector, mutates classes, attributes, text and form values,
// and subscribes to events. Tree is the in-memory implementation; the browser
// bridge mirrors every mutation a Tree reports to the real page.
package dom

// Listener handles a dispatched event.
type Listener func(ev *Event)

// Element is a single node in the document.
type Element interface {
	ID() string
	Attr(name string) (string, bool)
	SetAttr(name, value string)

	AddClass(names ...string)
	RemoveClass(names ...string)
	HasClass(name string) bool

	Text() string
	SetText(text string)
	SetHTML(markup string)

	// Value is the current value of a form control.
	Value() string
	SetValue(value string)

	Matches(selector string) bool
	// Closest returns the element itself or its nearest ancestor matching
	// selector, or nil.
	Closest(selector string) Element
	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element

	AddEventListener(eventType string, l Listener)
	// Delegate registers l for events of eventType whose target is, or sits
	// inside, a descendant matching selector.
	Delegate(eventType, selector string, l Listener)

	// CheckValidity reports whether every enabled control in the element
	// satisfies its constraints.
	CheckValidity() bool
	// Reset restores every control in the element to its default value.
	Reset()
}

// Document is the page-level view of the DOM.
type Document interface {
	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
	GetElementByID(id string) Element
	// Navigate sends the page to href.
	Navigate(href string)
}

// Event is a DOM event in flight.
type Event struct {
	Type   string
	Target Element

	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event of the given type aimed at target.
func NewEvent(eventType string, target Element) *Event {
	return &Event{Type: eventType, Target: target}
}

// PreventDefault cancels the browser's default action for the event.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// StopPropagation stops the event from reaching ancestors of the current node.
func (e *Event) StopPropagation() { e.stopped = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopped }
