// Package widget declares the third-party UI libraries the admin pages drive:
// charts, data tables, modal dialogs, alerts and toasts, a date-range picker
// and a calendar. Each is consumed only through its configuration API, so the
// interfaces here carry plain configuration values and callbacks.
package widget

import (
	"time"

	"vax-admin/internal/dom"
)

// Charts renders a chart onto a canvas element.
type Charts interface {
	Render(canvas dom.Element, cfg ChartConfig)
}

// Tables upgrades plain table elements into interactive tables.
type Tables interface {
	IsUpgraded(selector string) bool
	Upgrade(selector string, opts TableOptions)
}

// Modal is a handle to one modal dialog.
type Modal interface {
	Show()
	Hide()
}

// Modals creates modal handles for dialog elements.
type Modals interface {
	New(el dom.Element) Modal
}

// Alerts shows dialogs and toasts.
type Alerts interface {
	// Fire shows a dialog and returns immediately; then runs once the user
	// answers.
	Fire(opts AlertOptions, then func(AlertResult))
	Toast(opts ToastOptions)
}

// DateRangePicker attaches a range picker to a trigger element.
type DateRangePicker interface {
	Available() bool
	Attach(target dom.Element, opts DateRangeOptions, onApply func(start, end time.Time))
}

// Calendar renders an event calendar.
type Calendar interface {
	Available() bool
	Render(el dom.Element, opts CalendarOptions, handlers CalendarHandlers)
}

// Set bundles one implementation of every widget library.
type Set struct {
	Charts     Charts
	Tables     Tables
	Modals     Modals
	Alerts     Alerts
	DatePicker DateRangePicker
	Calendar   Calendar
}
