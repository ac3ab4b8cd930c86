package bridge

import (
	"vax-admin/internal/dom"
	"vax-admin/internal/widget"
)

// Command ops, server to browser.
const (
	OpClass     = "class"
	OpAttr      = "attr"
	OpText      = "text"
	OpHTML      = "html"
	OpValue     = "value"
	OpReset     = "reset"
	OpNavigate  = "navigate"
	OpSubmit    = "submit"
	OpChart     = "chart"
	OpTable     = "table"
	OpModalShow = "modal.show"
	OpModalHide = "modal.hide"
	OpAlert     = "alert"
	OpToast     = "toast"
	OpDateRange = "daterange"
	OpCalendar  = "calendar"
)

// Message types, browser to server.
const (
	TypeHello          = "hello"
	TypeClick          = "click"
	TypeSubmit         = "submit"
	TypeModalHidden    = "hidden.bs.modal"
	TypeDialogResult   = "dialog-result"
	TypeDateRangeApply = "daterange-apply"
	TypeCalendarClick  = "calendar-click"
	TypeCalendarDrop   = "calendar-drop"
)

// Library names the browser reports in its hello message.
const (
	LibDateRangePicker = "daterangepicker"
	LibCalendar        = "calendar"
)

// Command is one instruction for the browser. Ref addresses an element by
// its document-order index; Selector is used where the widget library takes
// a selector itself.
type Command struct {
	Op       string   `json:"op"`
	Ref      int      `json:"ref,omitempty"`
	Selector string   `json:"selector,omitempty"`
	Name     string   `json:"name,omitempty"`
	Value    string   `json:"value,omitempty"`
	Add      []string `json:"add,omitempty"`
	Remove   []string `json:"remove,omitempty"`
	// ID correlates a later browser message with a pending handler.
	ID     string `json:"id,omitempty"`
	Config any    `json:"config,omitempty"`
}

// Message is one event reported by the browser.
type Message struct {
	Type   string `json:"type"`
	Target int    `json:"target,omitempty"`
	ID     string `json:"id,omitempty"`

	// Values carries form control values by ref on submit.
	Values map[int]string `json:"values,omitempty"`
	// Invalid lists the submitted controls the browser itself rejected.
	Invalid []int `json:"invalid,omitempty"`

	Confirmed bool                  `json:"confirmed,omitempty"`
	Start     widget.Date           `json:"start,omitempty"`
	End       widget.Date           `json:"end,omitempty"`
	Event     *widget.CalendarEvent `json:"event,omitempty"`

	// Hello only.
	Refs int             `json:"refs,omitempty"`
	Libs map[string]bool `json:"libs,omitempty"`
}

// commandFor translates a tree mutation into the command that replays it.
func commandFor(m dom.Mutation) Command {
	switch m.Op {
	case dom.OpClassAdd:
		return Command{Op: OpClass, Ref: m.Ref, Add: m.Classes}
	case dom.OpClassRemove:
		return Command{Op: OpClass, Ref: m.Ref, Remove: m.Classes}
	case dom.OpAttr:
		return Command{Op: OpAttr, Ref: m.Ref, Name: m.Name, Value: m.Value}
	case dom.OpText:
		return Command{Op: OpText, Ref: m.Ref, Value: m.Value}
	case dom.OpHTML:
		return Command{Op: OpHTML, Ref: m.Ref, Value: m.Value}
	case dom.OpValue:
		return Command{Op: OpValue, Ref: m.Ref, Value: m.Value}
	case dom.OpReset:
		return Command{Op: OpReset, Ref: m.Ref}
	default:
		return Command{Op: OpNavigate, Value: m.Value}
	}
}
