package widget

import (
	"encoding/json"
	"time"
)

// Colors is one color or a per-point color list. A single color encodes as
// a plain string.
type Colors []string

func (c Colors) MarshalJSON() ([]byte, error) {
	switch len(c) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

// ChartConfig is the chart constructor configuration.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor Colors    `json:"backgroundColor,omitempty"`
	BorderColor     Colors    `json:"borderColor,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
}

type ChartOptions struct {
	Responsive          bool `json:"responsive"`
	MaintainAspectRatio bool `json:"maintainAspectRatio"`
}

// TableOptions configures a table upgrade.
type TableOptions struct {
	Responsive   bool          `json:"responsive"`
	LengthChange bool          `json:"lengthChange"`
	AutoWidth    bool          `json:"autoWidth"`
	Language     TableLanguage `json:"language"`
}

// TableLanguage overrides the table's UI strings.
type TableLanguage struct {
	Search       string        `json:"search"`
	Paginate     TablePaginate `json:"paginate"`
	Info         string        `json:"info"`
	InfoEmpty    string        `json:"infoEmpty"`
	InfoFiltered string        `json:"infoFiltered"`
	ZeroRecords  string        `json:"zeroRecords"`
}

type TablePaginate struct {
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// Icon names understood by the alert library.
const (
	IconSuccess = "success"
	IconWarning = "warning"
	IconInfo    = "info"
)

// AlertOptions configures a dialog.
type AlertOptions struct {
	Title              string `json:"title"`
	Text               string `json:"text,omitempty"`
	HTML               string `json:"html,omitempty"`
	Icon               string `json:"icon,omitempty"`
	ShowCancelButton   bool   `json:"showCancelButton"`
	ConfirmButtonColor string `json:"confirmButtonColor,omitempty"`
	CancelButtonColor  string `json:"cancelButtonColor,omitempty"`
	ConfirmButtonText  string `json:"confirmButtonText,omitempty"`
	CancelButtonText   string `json:"cancelButtonText,omitempty"`
}

// AlertResult is the user's answer to a dialog.
type AlertResult struct {
	Confirmed bool
}

// ToastOptions configures a self-dismissing notification.
type ToastOptions struct {
	Title             string `json:"title"`
	Text              string `json:"text"`
	Icon              string `json:"icon"`
	Position          string `json:"position"`
	ShowConfirmButton bool   `json:"showConfirmButton"`
	// TimerMillis is the auto-dismiss delay.
	TimerMillis      int64 `json:"timer"`
	TimerProgressBar bool  `json:"timerProgressBar"`
	// PauseOnHover stops the timer while the pointer is over the toast.
	PauseOnHover bool `json:"pauseOnHover"`
}

// Date is a calendar day. It encodes as YYYY-MM-DD.
type Date time.Time

const dateLayout = "2006-01-02"

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

// NamedRange is one preset offered by the date-range picker.
type NamedRange struct {
	Label string `json:"label"`
	Start Date   `json:"start"`
	End   Date   `json:"end"`
}

// DateRangeOptions configures the date-range picker. Ranges keep their order.
type DateRangeOptions struct {
	Ranges    []NamedRange `json:"ranges"`
	StartDate Date         `json:"startDate"`
	EndDate   Date         `json:"endDate"`
}

// CalendarEvent is one entry on the calendar.
type CalendarEvent struct {
	Title           string `json:"title"`
	Start           string `json:"start"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty"`
}

// StartTime parses Start. Values without a zone are read as local time.
func (e CalendarEvent) StartTime() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", dateLayout} {
		if t, err := time.ParseInLocation(layout, e.Start, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type HeaderToolbar struct {
	Left   string `json:"left"`
	Center string `json:"center"`
	Right  string `json:"right"`
}

// CalendarOptions configures a calendar render.
type CalendarOptions struct {
	HeaderToolbar HeaderToolbar   `json:"headerToolbar"`
	InitialView   string          `json:"initialView"`
	Locale        string          `json:"locale"`
	Editable      bool            `json:"editable"`
	Droppable     bool            `json:"droppable"`
	Events        []CalendarEvent `json:"events"`
}

// CalendarHandlers receive user interaction with calendar events.
type CalendarHandlers struct {
	EventClick func(CalendarEvent)
	EventDrop  func(CalendarEvent)
}
