package admin

import (
	"fmt"
	"time"

	"vax-admin/internal/dom"
	"vax-admin/internal/widget"
)

const dateRangeLayout = "2/1/2006"

var chartOptions = widget.ChartOptions{Responsive: true, MaintainAspectRatio: false}

func (p *Panel) initDashboard() {
	if canvas := p.doc.GetElementByID("revenueChart"); canvas != nil {
		rev := p.demo.Revenue()
		p.w.Charts.Render(canvas, widget.ChartConfig{
			Type: "bar",
			Data: widget.ChartData{
				Labels: rev.Labels,
				Datasets: []widget.Dataset{{
					Label:           "Doanh thu (Triệu VNĐ)",
					Data:            rev.Values,
					BackgroundColor: widget.Colors{"rgba(0, 119, 182, 0.7)"},
					BorderColor:     widget.Colors{"rgba(0, 119, 182, 1)"},
				}},
			},
			Options: chartOptions,
		})
	}

	if canvas := p.doc.GetElementByID("appointmentsChart"); canvas != nil {
		out := p.demo.AppointmentOutcomes()
		p.w.Charts.Render(canvas, widget.ChartConfig{
			Type: "doughnut",
			Data: widget.ChartData{
				Labels: out.Labels,
				Datasets: []widget.Dataset{{
					Data:            out.Values,
					BackgroundColor: widget.Colors{"#148e63", "#dc3545", "#d4a000"},
				}},
			},
			Options: chartOptions,
		})
	}
}

func (p *Panel) initVaccinePage() {
	p.InitTable("#vaccineTable")
	p.InitTable("#vaccineLotsTable")

	p.BindModal(ModalBinding{
		TableSelector: "#vaccineTable",
		ModalSelector: "#vaccineModal",
		ItemLabel:     "vắc xin",
		TitleSelector: "#modalTitle",
		OnShow: func(widget.Modal, dom.Element) {
			v := p.demo.Vaccine()
			p.setText("#modalTitle", "Chỉnh sửa Vắc xin")
			p.setValue("vaccineId", v.ID)
			p.setValue("vaccineName", v.Name)
			p.setValue("vaccineQuantity", v.Quantity)
			p.setValue("vaccinePrice", v.Price)
		},
		OnHide: func(dom.Element) {
			p.setValue("vaccineId", "")
			p.setText("#modalTitle", "Thêm Vắc Xin Mới")
		},
	})
}

func (p *Panel) initCustomerPage() {
	p.InitTable("#customersTable")

	p.BindModal(ModalBinding{
		TableSelector: "#customersTable",
		ModalSelector: "#customerModal",
		ItemLabel:     "khách hàng",
		TitleSelector: "#customerModalTitle",
		OnShow: func(widget.Modal, dom.Element) {
			c := p.demo.Customer()
			p.setText("#customerModalTitle", "Chỉnh sửa Khách hàng")
			p.setValue("customerId", c.ID)
			p.setValue("customerName", c.Name)
			p.setValue("customerPhone", c.Phone)
		},
	})
}

func (p *Panel) initReportsPage() {
	if btn := p.doc.GetElementByID("daterange-btn"); btn != nil && p.w.DatePicker != nil && p.w.DatePicker.Available() {
		today := startOfDay(p.now())
		monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		monthEnd := monthStart.AddDate(0, 1, -1)

		opts := widget.DateRangeOptions{
			Ranges: []widget.NamedRange{
				{Label: "Hôm nay", Start: widget.Date(today), End: widget.Date(today)},
				{Label: "7 ngày qua", Start: widget.Date(today.AddDate(0, 0, -6)), End: widget.Date(today)},
				{Label: "30 ngày qua", Start: widget.Date(today.AddDate(0, 0, -29)), End: widget.Date(today)},
				{Label: "Tháng này", Start: widget.Date(monthStart), End: widget.Date(monthEnd)},
			},
			StartDate: widget.Date(today.AddDate(0, 0, -29)),
			EndDate:   widget.Date(today),
		}
		p.w.DatePicker.Attach(btn, opts, func(start, end time.Time) {
			p.setHTML("#daterange-btn span", start.Format(dateRangeLayout)+" - "+end.Format(dateRangeLayout))
		})
	}

	if canvas := p.doc.GetElementByID("trendsChart"); canvas != nil {
		weekly := p.demo.WeeklyVaccinations()
		p.w.Charts.Render(canvas, widget.ChartConfig{
			Type: "line",
			Data: widget.ChartData{
				Labels: weekly.Labels,
				Datasets: []widget.Dataset{{
					Label:           "Lượt tiêm",
					Data:            weekly.Values,
					BackgroundColor: widget.Colors{"rgba(0, 119, 182, 0.1)"},
					BorderColor:     widget.Colors{"rgba(0, 119, 182, 1)"},
					Fill:            true,
					Tension:         0.3,
				}},
			},
			Options: chartOptions,
		})
	}
}

func (p *Panel) initCalendar() {
	el := p.doc.GetElementByID("calendar")
	if el == nil || p.w.Calendar == nil || !p.w.Calendar.Available() {
		return
	}

	p.w.Calendar.Render(el, widget.CalendarOptions{
		HeaderToolbar: widget.HeaderToolbar{
			Left:   "prev,next today",
			Center: "title",
			Right:  "dayGridMonth,timeGridWeek,timeGridDay",
		},
		InitialView: "dayGridMonth",
		Locale:      p.locale,
		Editable:    true,
		Droppable:   true,
		Events:      p.demo.Appointments(p.now()),
	}, widget.CalendarHandlers{
		EventClick: p.showAppointment,
		EventDrop: func(ev widget.CalendarEvent) {
			p.recorder.Record(KindReschedule, ev.Title)
			p.Toast("Thành công!", fmt.Sprintf("Đã dời lịch hẹn của \"%s\"", ev.Title), widget.IconSuccess)
		},
	})
}

func (p *Panel) showAppointment(ev widget.CalendarEvent) {
	at := "--:--"
	if t, ok := ev.StartTime(); ok {
		at = t.Format("15:04")
	}
	p.w.Alerts.Fire(widget.AlertOptions{
		Title:             ev.Title,
		HTML:              fmt.Sprintf("<b>Thời gian:</b> %s<br><b>Trạng thái:</b> Sắp tới", at),
		Icon:              widget.IconInfo,
		ShowCancelButton:  true,
		ConfirmButtonText: "Xem chi tiết phiếu tiêm",
		CancelButtonText:  "Đóng",
	}, func(res widget.AlertResult) {
		if !res.Confirmed {
			return
		}
		p.recorder.Record(KindNavigate, p.detailsPage)
		p.doc.Navigate(p.detailsPage)
	})
}

func (p *Panel) setHTML(selector, markup string) {
	if el := p.doc.QuerySelector(selector); el != nil {
		el.SetHTML(markup)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
