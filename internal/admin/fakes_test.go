package admin

import (
	"time"

	"vax-admin/internal/dom"
	"vax-admin/internal/widget"
)

type renderedChart struct {
	canvasID string
	cfg      widget.ChartConfig
}

type fakeCharts struct {
	rendered []renderedChart
}

func (f *fakeCharts) Render(canvas dom.Element, cfg widget.ChartConfig) {
	f.rendered = append(f.rendered, renderedChart{canvasID: canvas.ID(), cfg: cfg})
}

type fakeTables struct {
	upgraded map[string]widget.TableOptions
	calls    int
}

func (f *fakeTables) IsUpgraded(selector string) bool {
	_, ok := f.upgraded[selector]
	return ok
}

func (f *fakeTables) Upgrade(selector string, opts widget.TableOptions) {
	if f.upgraded == nil {
		f.upgraded = map[string]widget.TableOptions{}
	}
	f.upgraded[selector] = opts
	f.calls++
}

// fakeModal fires the close event on hide the way the modal library does.
type fakeModal struct {
	tree   *dom.Tree
	el     dom.Element
	shown  int
	hidden int
}

func (m *fakeModal) Show() { m.shown++ }

func (m *fakeModal) Hide() {
	m.hidden++
	m.tree.Dispatch(dom.NewEvent(ModalHiddenEvent, m.el))
}

type fakeModals struct {
	tree   *dom.Tree
	modals map[string]*fakeModal
}

func (f *fakeModals) New(el dom.Element) widget.Modal {
	m := &fakeModal{tree: f.tree, el: el}
	if f.modals == nil {
		f.modals = map[string]*fakeModal{}
	}
	f.modals[el.ID()] = m
	return m
}

type fakeAlerts struct {
	fired   []widget.AlertOptions
	pending []func(widget.AlertResult)
	toasts  []widget.ToastOptions
}

func (f *fakeAlerts) Fire(opts widget.AlertOptions, then func(widget.AlertResult)) {
	f.fired = append(f.fired, opts)
	f.pending = append(f.pending, then)
}

func (f *fakeAlerts) Toast(opts widget.ToastOptions) {
	f.toasts = append(f.toasts, opts)
}

// answer resolves the oldest open dialog.
func (f *fakeAlerts) answer(confirmed bool) {
	then := f.pending[0]
	f.pending = f.pending[1:]
	then(widget.AlertResult{Confirmed: confirmed})
}

type fakeDatePicker struct {
	available bool
	target    dom.Element
	opts      widget.DateRangeOptions
	onApply   func(start, end time.Time)
}

func (f *fakeDatePicker) Available() bool { return f.available }

func (f *fakeDatePicker) Attach(target dom.Element, opts widget.DateRangeOptions, onApply func(start, end time.Time)) {
	f.target, f.opts, f.onApply = target, opts, onApply
}

type fakeCalendar struct {
	available bool
	rendered  bool
	opts      widget.CalendarOptions
	handlers  widget.CalendarHandlers
}

func (f *fakeCalendar) Available() bool { return f.available }

func (f *fakeCalendar) Render(_ dom.Element, opts widget.CalendarOptions, handlers widget.CalendarHandlers) {
	f.rendered, f.opts, f.handlers = true, opts, handlers
}

type recorded struct {
	kind, message string
}

type fakeRecorder struct {
	entries []recorded
}

func (r *fakeRecorder) Record(kind, message string) {
	r.entries = append(r.entries, recorded{kind, message})
}
