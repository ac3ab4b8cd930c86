package admin

import (
	"time"

	"vax-admin/internal/widget"
)

// DemoData supplies the values the pages show in place of fetched records.
type DemoData interface {
	Vaccine() VaccineRecord
	Customer() CustomerRecord
	Revenue() Series
	AppointmentOutcomes() Series
	WeeklyVaccinations() Series
	// Appointments returns the calendar entries for day.
	Appointments(day time.Time) []widget.CalendarEvent
}

// VaccineRecord is the vaccine the edit modal is filled with. Quantity and
// Price are kept as the strings written into the form.
type VaccineRecord struct {
	ID       string
	Name     string
	Quantity string
	Price    string
}

// CustomerRecord is the customer the edit modal is filled with.
type CustomerRecord struct {
	ID    string
	Name  string
	Phone string
}

// Series is a labelled list of chart values.
type Series struct {
	Labels []string
	Values []float64
}

// StaticDemo is the fixed data set the clinic demo ships with.
type StaticDemo struct{}

// Vaccine returns VC001.
func (StaticDemo) Vaccine() VaccineRecord {
	return VaccineRecord{
		ID:       "VC001",
		Name:     "Vắc xin 6 trong 1 (Demo)",
		Quantity: "250",
		Price:    "1015000",
	}
}

// Customer returns KH001.
func (StaticDemo) Customer() CustomerRecord {
	return CustomerRecord{
		ID:    "KH001",
		Name:  "Nguyễn Văn An (Demo)",
		Phone: "0901234567",
	}
}

// Revenue returns monthly revenue from May to October, in millions of VND.
func (StaticDemo) Revenue() Series {
	return Series{
		Labels: []string{"Tháng 5", "Tháng 6", "Tháng 7", "Tháng 8", "Tháng 9", "Tháng 10"},
		Values: []float64{28, 48, 40, 19, 86, 90},
	}
}

// AppointmentOutcomes returns completed, cancelled and upcoming counts.
func (StaticDemo) AppointmentOutcomes() Series {
	return Series{
		Labels: []string{"Hoàn thành", "Đã hủy", "Sắp tới"},
		Values: []float64{700, 50, 100},
	}
}

// WeeklyVaccinations returns doses given over the last six weeks.
func (StaticDemo) WeeklyVaccinations() Series {
	return Series{
		Labels: []string{"Tuần 1", "Tuần 2", "Tuần 3", "Tuần 4", "Tuần 5", "Tuần 6"},
		Values: []float64{120, 150, 110, 180, 210, 190},
	}
}

// Appointments returns two morning appointments on day's UTC date.
func (StaticDemo) Appointments(day time.Time) []widget.CalendarEvent {
	date := day.UTC().Format("2006-01-02")
	return []widget.CalendarEvent{
		{
			Title:           "Tiêm 6 trong 1 - Nguyễn Văn An",
			Start:           date + "T09:30:00",
			BackgroundColor: "#007bff",
			BorderColor:     "#007bff",
		},
		{
			Title:           "Tiêm Cúm - Trần Thị Bình",
			Start:           date + "T10:00:00",
			BackgroundColor: "#148e63",
			BorderColor:     "#148e63",
		},
	}
}
