package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Mutation ops reported to a Tree observer.
const (
	OpClassAdd    = "class.add"
	OpClassRemove = "class.remove"
	OpAttr        = "attr"
	OpText        = "text"
	OpHTML        = "html"
	OpValue       = "value"
	OpReset       = "reset"
	OpNavigate    = "navigate"
)

// Mutation describes one change made to a Tree.
type Mutation struct {
	Op      string
	Ref     int
	Name    string
	Value   string
	Classes []string
}

type binding struct {
	eventType string
	selector  string
	fn        Listener
}

// Tree is an in-memory Document parsed from HTML.
//
// Every element present at parse time gets a ref: its 1-based position in
// document order. Served pages carry their refs in RefAttr, so a ref names
// the same element on the server and in the browser even after scripts add
// nodes of their own.
type Tree struct {
	doc       *goquery.Document
	refs      []*html.Node
	index     map[*html.Node]int
	values    map[*html.Node]string
	invalid   map[*html.Node]bool
	listeners map[*html.Node][]binding
	observer  func(Mutation)
	location  string
}

var _ Document = (*Tree)(nil)

// Parse builds a Tree from an HTML document.
func Parse(r io.Reader) (*Tree, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	t := &Tree{
		doc:       doc,
		refs:      []*html.Node{nil},
		index:     make(map[*html.Node]int),
		values:    make(map[*html.Node]string),
		invalid:   make(map[*html.Node]bool),
		listeners: make(map[*html.Node][]binding),
	}
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		t.index[n] = len(t.refs)
		t.refs = append(t.refs, n)
	})
	return t, nil
}

// RefAttr holds an element's ref in stamped markup.
const RefAttr = "data-vx"

// Stamp writes every element's ref into RefAttr. Nothing is reported to the
// observer.
func (t *Tree) Stamp() {
	for ref, n := range t.refs[1:] {
		t.doc.FindNodes(n).SetAttr(RefAttr, strconv.Itoa(ref+1))
	}
}

// HTML renders the whole document.
func (t *Tree) HTML() (string, error) {
	return goquery.OuterHtml(t.doc.Selection)
}

// ParseString is Parse for an in-memory string.
func ParseString(markup string) (*Tree, error) {
	return Parse(strings.NewReader(markup))
}

// Observe installs fn to receive every mutation made through the Tree.
func (t *Tree) Observe(fn func(Mutation)) {
	t.observer = fn
}

// Len returns the number of refs assigned at parse time.
func (t *Tree) Len() int {
	return len(t.refs) - 1
}

// ElementByRef returns the element stamped with ref, or nil.
func (t *Tree) ElementByRef(ref int) Element {
	if ref <= 0 || ref >= len(t.refs) {
		return nil
	}
	return t.wrap(t.refs[ref])
}

// Ref returns the ref of el, or 0 when el was not present at parse time or
// belongs to another Tree.
func (t *Tree) Ref(el Element) int {
	n, ok := el.(*node)
	if !ok || n.t != t {
		return 0
	}
	return t.index[n.n]
}

// SyncValue records a control value reported by the browser. Unlike
// SetValue it does not emit a mutation.
func (t *Tree) SyncValue(ref int, value string) {
	if ref <= 0 || ref >= len(t.refs) {
		return
	}
	t.values[t.refs[ref]] = value
}

// SyncValidity records the browser's own verdict on a control. A control the
// browser reports invalid fails CheckValidity until it is reported valid,
// assigned a value or reset.
func (t *Tree) SyncValidity(ref int, valid bool) {
	if ref <= 0 || ref >= len(t.refs) {
		return
	}
	if valid {
		delete(t.invalid, t.refs[ref])
		return
	}
	t.invalid[t.refs[ref]] = true
}

// Location returns the last href passed to Navigate.
func (t *Tree) Location() string {
	return t.location
}

// QuerySelector implements Document.
func (t *Tree) QuerySelector(selector string) Element {
	return t.first(t.doc.Find(selector))
}

// QuerySelectorAll implements Document.
func (t *Tree) QuerySelectorAll(selector string) []Element {
	return t.all(t.doc.Find(selector))
}

// GetElementByID implements Document.
func (t *Tree) GetElementByID(id string) Element {
	if id == "" {
		return nil
	}
	match := t.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	})
	return t.first(match)
}

// Navigate implements Document.
func (t *Tree) Navigate(href string) {
	t.location = href
	t.emit(Mutation{Op: OpNavigate, Value: href})
}

// Dispatch delivers ev to listeners on its target and then on each ancestor,
// stopping after the node at which propagation was stopped.
func (t *Tree) Dispatch(ev *Event) {
	target, ok := ev.Target.(*node)
	if !ok || target.t != t {
		return
	}

	for cur := target.n; cur != nil; cur = cur.Parent {
		bindings := append([]binding(nil), t.listeners[cur]...)
		for _, b := range bindings {
			if b.eventType != ev.Type {
				continue
			}
			if b.selector == "" {
				b.fn(ev)
				continue
			}
			if t.closestWithin(target.n, cur, b.selector) != nil {
				b.fn(ev)
			}
		}
		if ev.stopped {
			return
		}
	}
}

// closestWithin finds the nearest node from n upwards that matches selector,
// stopping before boundary.
func (t *Tree) closestWithin(n, boundary *html.Node, selector string) *html.Node {
	for cur := n; cur != nil && cur != boundary; cur = cur.Parent {
		if cur.Type == html.ElementNode && t.sel(cur).Is(selector) {
			return cur
		}
	}
	return nil
}

func (t *Tree) emit(m Mutation) {
	if t.observer == nil {
		return
	}
	if m.Op != OpNavigate && m.Ref == 0 {
		return
	}
	t.observer(m)
}

func (t *Tree) sel(n *html.Node) *goquery.Selection {
	return t.doc.FindNodes(n)
}

func (t *Tree) wrap(n *html.Node) Element {
	if n == nil {
		return nil
	}
	return &node{t: t, n: n}
}

func (t *Tree) first(s *goquery.Selection) Element {
	if s.Length() == 0 {
		return nil
	}
	return t.wrap(s.Get(0))
}

func (t *Tree) all(s *goquery.Selection) []Element {
	out := make([]Element, 0, s.Length())
	for _, n := range s.Nodes {
		out = append(out, t.wrap(n))
	}
	return out
}

// node is the Tree's Element.
type node struct {
	t *Tree
	n *html.Node
}

func (e *node) ref() int { return e.t.index[e.n] }

func (e *node) sel() *goquery.Selection {
	s := e.t.sel(e.n)
	if s.Length() == 0 {
		// Detached nodes still answer selector queries about themselves.
		return &goquery.Selection{Nodes: []*html.Node{e.n}}
	}
	return s
}

func (e *node) ID() string {
	v, _ := e.Attr("id")
	return v
}

func (e *node) Attr(name string) (string, bool) {
	return attr(e.n, name)
}

func (e *node) SetAttr(name, value string) {
	e.sel().SetAttr(name, value)
	e.t.emit(Mutation{Op: OpAttr, Ref: e.ref(), Name: name, Value: value})
}

func (e *node) AddClass(names ...string) {
	e.sel().AddClass(names...)
	e.t.emit(Mutation{Op: OpClassAdd, Ref: e.ref(), Classes: names})
}

func (e *node) RemoveClass(names ...string) {
	e.sel().RemoveClass(names...)
	e.t.emit(Mutation{Op: OpClassRemove, Ref: e.ref(), Classes: names})
}

func (e *node) HasClass(name string) bool {
	return e.sel().HasClass(name)
}

func (e *node) Text() string {
	return e.sel().Text()
}

func (e *node) SetText(text string) {
	e.sel().SetText(text)
	e.t.emit(Mutation{Op: OpText, Ref: e.ref(), Value: text})
}

func (e *node) SetHTML(markup string) {
	e.sel().SetHtml(markup)
	e.t.emit(Mutation{Op: OpHTML, Ref: e.ref(), Value: markup})
}

func (e *node) Value() string {
	if v, ok := e.t.values[e.n]; ok {
		return v
	}
	return defaultValue(e.n)
}

func (e *node) SetValue(value string) {
	e.t.values[e.n] = value
	delete(e.t.invalid, e.n)
	e.t.emit(Mutation{Op: OpValue, Ref: e.ref(), Value: value})
}

func (e *node) Matches(selector string) bool {
	return e.sel().Is(selector)
}

func (e *node) Closest(selector string) Element {
	return e.t.first(e.sel().Closest(selector))
}

func (e *node) QuerySelector(selector string) Element {
	return e.t.first(e.sel().Find(selector))
}

func (e *node) QuerySelectorAll(selector string) []Element {
	return e.t.all(e.sel().Find(selector))
}

func (e *node) AddEventListener(eventType string, l Listener) {
	e.t.listeners[e.n] = append(e.t.listeners[e.n], binding{eventType: eventType, fn: l})
}

func (e *node) Delegate(eventType, selector string, l Listener) {
	e.t.listeners[e.n] = append(e.t.listeners[e.n], binding{eventType: eventType, selector: selector, fn: l})
}

func (e *node) CheckValidity() bool {
	for _, c := range e.controls() {
		if !e.t.validControl(c) {
			return false
		}
	}
	return true
}

func (e *node) Reset() {
	for _, c := range e.controls() {
		delete(e.t.values, c)
		delete(e.t.invalid, c)
	}
	e.t.emit(Mutation{Op: OpReset, Ref: e.ref()})
}

// controls returns the form controls in the element, the element included.
func (e *node) controls() []*html.Node {
	var out []*html.Node
	if isControl(e.n) {
		out = append(out, e.n)
	}
	out = append(out, e.sel().Find(controlSelector).Nodes...)
	return out
}
