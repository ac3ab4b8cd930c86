package bridge

import (
	"time"

	"github.com/google/uuid"

	"vax-admin/internal/dom"
	"vax-admin/internal/widget"
)

// widgets returns the widget set that drives the browser's libraries.
func (s *Session) widgets() widget.Set {
	return widget.Set{
		Charts:     chartsBridge{s},
		Tables:     tablesBridge{s},
		Modals:     modalsBridge{s},
		Alerts:     alertsBridge{s},
		DatePicker: dateRangeBridge{s},
		Calendar:   calendarBridge{s},
	}
}

func (s *Session) ref(el dom.Element) int {
	return s.tree.Ref(el)
}

type chartsBridge struct{ s *Session }

func (b chartsBridge) Render(canvas dom.Element, cfg widget.ChartConfig) {
	b.s.send(Command{Op: OpChart, Ref: b.s.ref(canvas), Config: cfg})
}

// tablesBridge marks a table upgraded as soon as the command is queued, so
// a second upgrade in the same session is refused.
type tablesBridge struct{ s *Session }

func (b tablesBridge) IsUpgraded(selector string) bool {
	return b.s.upgraded[selector]
}

func (b tablesBridge) Upgrade(selector string, opts widget.TableOptions) {
	b.s.upgraded[selector] = true
	b.s.send(Command{Op: OpTable, Selector: selector, Config: opts})
}

type modalsBridge struct{ s *Session }

func (b modalsBridge) New(el dom.Element) widget.Modal {
	return modalHandle{s: b.s, ref: b.s.ref(el)}
}

type modalHandle struct {
	s   *Session
	ref int
}

func (m modalHandle) Show() { m.s.send(Command{Op: OpModalShow, Ref: m.ref}) }

// Hide asks the browser to close the modal. The browser answers with a
// hidden.bs.modal event once the close animation ends.
func (m modalHandle) Hide() { m.s.send(Command{Op: OpModalHide, Ref: m.ref}) }

type alertsBridge struct{ s *Session }

func (b alertsBridge) Fire(opts widget.AlertOptions, then func(widget.AlertResult)) {
	id := uuid.NewString()
	b.s.dialogs[id] = then
	b.s.send(Command{Op: OpAlert, ID: id, Config: opts})
}

func (b alertsBridge) Toast(opts widget.ToastOptions) {
	b.s.metrics.ToastShown(opts.Icon)
	b.s.send(Command{Op: OpToast, Config: opts})
}

type dateRangeBridge struct{ s *Session }

func (b dateRangeBridge) Available() bool {
	return b.s.libs[LibDateRangePicker]
}

func (b dateRangeBridge) Attach(target dom.Element, opts widget.DateRangeOptions, onApply func(start, end time.Time)) {
	id := uuid.NewString()
	b.s.ranges[id] = onApply
	b.s.send(Command{Op: OpDateRange, Ref: b.s.ref(target), ID: id, Config: opts})
}

type calendarBridge struct{ s *Session }

func (b calendarBridge) Available() bool {
	return b.s.libs[LibCalendar]
}

func (b calendarBridge) Render(el dom.Element, opts widget.CalendarOptions, handlers widget.CalendarHandlers) {
	id := uuid.NewString()
	b.s.calendars[id] = handlers
	b.s.send(Command{Op: OpCalendar, Ref: b.s.ref(el), ID: id, Config: opts})
}
