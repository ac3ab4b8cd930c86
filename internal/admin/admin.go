// Package admin wires the clinic admin pages to their widgets.
//
// A Panel is created once per loaded page. Run picks the page initializer
// for the current page and everything after that happens in listeners the
// initializer registered on the document.
package admin

import (
	"log/slog"
	"time"

	"vax-admin/internal/dom"
	"vax-admin/internal/widget"
)

// Activity kinds reported to a Recorder.
const (
	KindToast      = "toast"
	KindDelete     = "delete"
	KindReschedule = "reschedule"
	KindNavigate   = "navigate"
	KindPage       = "page"
)

// Recorder receives a line for every user-visible demo action.
type Recorder interface {
	Record(kind, message string)
}

type nopRecorder struct{}

func (nopRecorder) Record(string, string) {}

// Panel runs the admin glue for one page.
type Panel struct {
	doc      dom.Document
	w        widget.Set
	demo     DemoData
	now      func() time.Time
	recorder Recorder
	logger   *slog.Logger

	detailsPage  string
	locale       string
	toastTimeout time.Duration

	routes map[string]func()
}

// Option configures a Panel.
type Option func(*Panel)

// WithDemoData replaces the built-in demo values.
func WithDemoData(d DemoData) Option {
	return func(p *Panel) { p.demo = d }
}

// WithClock sets the source of "today" for date ranges and calendar seeds.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) { p.now = now }
}

// WithRecorder reports demo actions to r.
func WithRecorder(r Recorder) Option {
	return func(p *Panel) { p.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Panel) { p.logger = l }
}

// WithDetailsPage sets where the calendar's "view details" action goes.
func WithDetailsPage(name string) Option {
	return func(p *Panel) { p.detailsPage = name }
}

// WithLocale sets the calendar locale.
func WithLocale(locale string) Option {
	return func(p *Panel) { p.locale = locale }
}

// WithToastTimeout sets how long toasts stay on screen.
func WithToastTimeout(d time.Duration) Option {
	return func(p *Panel) { p.toastTimeout = d }
}

// New creates a Panel over doc and the widget set w.
func New(doc dom.Document, w widget.Set, opts ...Option) *Panel {
	p := &Panel{
		doc:          doc,
		w:            w,
		demo:         StaticDemo{},
		now:          time.Now,
		recorder:     nopRecorder{},
		logger:       slog.Default(),
		detailsPage:  DefaultDetailsPage,
		locale:       "vi",
		toastTimeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.routes = map[string]func(){
		"index.html":        p.initDashboard,
		"vaccines.html":     p.initVaccinePage,
		"customers.html":    p.initCustomerPage,
		"appointments.html": func() { p.InitTable("#appointmentsTable") },
		"reports.html":      p.initReportsPage,
		"calendar.html":     p.initCalendar,
	}
	return p
}
