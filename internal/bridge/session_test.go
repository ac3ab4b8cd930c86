package bridge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vax-admin/internal/admin"
	"vax-admin/internal/dom"
	"vax-admin/internal/metrics"
	"vax-admin/internal/state"
	"vax-admin/internal/widget"
)

const page = `<!DOCTYPE html>
<html><head><title>Vắc xin</title></head>
<body>
<aside class="sidebar"><ul>
 <li class="nav-item"><a class="nav-link" href="index.html">Tổng quan</a></li>
 <li class="nav-item"><a class="nav-link" href="vaccines.html">Vắc xin</a></li>
</ul></aside>
<table id="vaccineTable"><tbody><tr><td>VC001</td><td>
 <button class="btn-edit" id="edit">Sửa</button>
 <button class="btn-delete" id="delete">Xóa</button>
</td></tr></tbody></table>
<div class="modal" id="vaccineModal">
 <h5 id="modalTitle">Thêm Vắc Xin Mới</h5>
 <form id="vaccineForm" class="needs-validation" novalidate>
  <input type="hidden" id="vaccineId" value="">
  <input type="text" id="vaccineName" required>
  <input type="number" id="vaccineQuantity" min="0">
  <input type="number" id="vaccinePrice" min="0">
 </form>
</div>
<form id="search" class="needs-validation"><input id="q" required></form>
<button id="daterange-btn"><span>Chọn ngày</span></button>
<div id="calendar"></div>
</body></html>`

var fixedNow = time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

type fixture struct {
	s     *Session
	tree  *dom.Tree
	state *state.AppState
}

func newFixture(t *testing.T, pageName string) *fixture {
	t.Helper()
	st := state.New(50)
	s, err := NewSession(nil, pageName, []byte(page), Config{
		Metrics:      metrics.New(),
		State:        st,
		PanelOptions: []admin.Option{admin.WithClock(func() time.Time { return fixedNow })},
	})
	require.NoError(t, err)
	return &fixture{s: s, tree: s.tree, state: st}
}

func (f *fixture) handle(msg Message) []Command {
	f.s.handle(context.Background(), msg)
	return f.drain()
}

func (f *fixture) drain() []Command {
	var out []Command
	for {
		select {
		case cmd := <-f.s.out:
			out = append(out, cmd)
		default:
			return out
		}
	}
}

func (f *fixture) ref(id string) int {
	return f.tree.Ref(f.tree.GetElementByID(id))
}

func (f *fixture) hello(libs ...string) []Command {
	m := map[string]bool{}
	for _, l := range libs {
		m[l] = true
	}
	return f.handle(Message{Type: TypeHello, Refs: f.tree.Len(), Libs: m})
}

func ops(cmds []Command) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Op)
	}
	return out
}

func find(cmds []Command, op string) (Command, bool) {
	for _, c := range cmds {
		if c.Op == op {
			return c, true
		}
	}
	return Command{}, false
}

func TestEventsBeforeHelloAreIgnored(t *testing.T) {
	f := newFixture(t, "vaccines.html")
	cmds := f.handle(Message{Type: TypeClick, Target: f.ref("edit")})
	assert.Empty(t, cmds)
}

func TestHello_RunsPageGlue(t *testing.T) {
	f := newFixture(t, "vaccines.html")
	cmds := f.hello()

	table, ok := find(cmds, OpTable)
	require.True(t, ok)
	assert.Equal(t, "#vaccineTable", table.Selector)

	var activeRef int
	for _, c := range cmds {
		if c.Op == OpClass && len(c.Add) == 1 && c.Add[0] == "active" {
			activeRef = c.Ref
		}
	}
	link := f.tree.ElementByRef(activeRef)
	require.NotNil(t, link)
	href, _ := link.Attr("href")
	assert.Equal(t, "vaccines.html", href)

	assert.Empty(t, f.hello(), "a second hello does nothing")

	snap := f.state.Snapshot()
	require.Len(t, snap.Activity, 1)
	assert.Equal(t, admin.KindPage, snap.Activity[0].Kind)
	assert.Equal(t, f.s.ID, snap.Activity[0].Session)
}

func TestEditThenSave(t *testing.T) {
	f := newFixture(t, "vaccines.html")
	f.hello()

	cmds := f.handle(Message{Type: TypeClick, Target: f.ref("edit")})
	assert.Contains(t, cmds, Command{Op: OpText, Ref: f.ref("modalTitle"), Value: "Chỉnh sửa Vắc xin"})
	assert.Contains(t, cmds, Command{Op: OpValue, Ref: f.ref("vaccineId"), Value: "VC001"})
	assert.Equal(t, Command{Op: OpModalShow, Ref: f.ref("vaccineModal")}, cmds[len(cmds)-1])

	cmds = f.handle(Message{Type: TypeSubmit, Target: f.ref("vaccineForm"), Values: map[int]string{
		f.ref("vaccineName"): "Vắc xin 6 trong 1",
	}})
	assert.Equal(t, []string{OpClass, OpClass, OpModalHide, OpToast}, ops(cmds))
	toast, _ := find(cmds, OpToast)
	assert.Equal(t, "Đã cập nhật vắc xin thành công.", toast.Config.(widget.ToastOptions).Text)

	cmds = f.handle(Message{Type: TypeModalHidden, Target: f.ref("vaccineModal")})
	assert.Contains(t, cmds, Command{Op: OpReset, Ref: f.ref("vaccineForm")})
	assert.Contains(t, cmds, Command{Op: OpClass, Ref: f.ref("vaccineForm"), Remove: []string{"was-validated"}})
	assert.Contains(t, cmds, Command{Op: OpText, Ref: f.ref("modalTitle"), Value: "Thêm Vắc Xin Mới"})
}

func TestSubmit_InvalidModalFormStaysOpen(t *testing.T) {
	f := newFixture(t, "vaccines.html")
	f.hello()

	cmds := f.handle(Message{Type: TypeSubmit, Target: f.ref("vaccineForm")})
	assert.Equal(t, []string{OpClass, OpClass}, ops(cmds))
}

func TestSubmit_BrowserRejectedControlStaysOpen(t *testing.T) {
	f := newFixture(t, "vaccines.html")
	f.hello()

	values := map[int]string{
		f.ref("vaccineName"):     "Cúm",
		f.ref("vaccineQuantity"): "10",
		f.ref("vaccinePrice"):    "300000",
	}
	cmds := f.handle(Message{Type: TypeSubmit, Target: f.ref("vaccineForm"), Values: values,
		Invalid: []int{f.ref("vaccineName")}})
	assert.Equal(t, []string{OpClass, OpClass}, ops(cmds))

	cmds = f.handle(Message{Type: TypeSubmit, Target: f.ref("vaccineForm"), Values: values})
	assert.Equal(t, []string{OpClass, OpClass, OpModalHide, OpToast}, ops(cmds))
}

func TestSubmit_ValidPlainFormIsSubmittedNatively(t *testing.T) {
	f := newFixture(t, "vaccines.html")
	f.hello()

	cmds := f.handle(Message{Type: TypeSubmit, Target: f.ref("search")})
	_, submitted := find(cmds, OpSubmit)
	assert.False(t, submitted)

	cmds = f.handle(Message{Type: TypeSubmit, Target: f.ref("search"), Values: map[int]string{f.ref("q"): "cúm"}})
	assert.Contains(t, cmds, Command{Op: OpSubmit, Ref: f.ref("search")})
}

func TestDeleteDialogRoundTrip(t *testing.T) {
	f := newFixture(t, "vaccines.html")
	f.hello()

	cmds := f.handle(Message{Type: TypeClick, Target: f.ref("delete")})
	require.Len(t, cmds, 1)
	alert := cmds[0]
	assert.Equal(t, OpAlert, alert.Op)
	require.NotEmpty(t, alert.ID)
	assert.Equal(t, "Vâng, xóa nó!", alert.Config.(widget.AlertOptions).ConfirmButtonText)

	cmds = f.handle(Message{Type: TypeDialogResult, ID: alert.ID, Confirmed: true})
	require.Len(t, cmds, 1)
	assert.Equal(t, "vắc xin đã được xóa.", cmds[0].Config.(widget.ToastOptions).Text)

	assert.Empty(t, f.handle(Message{Type: TypeDialogResult, ID: alert.ID, Confirmed: true}),
		"a dialog answers once")
}

func TestReportsDateRange(t *testing.T) {
	f := newFixture(t, "reports.html")
	cmds := f.hello(LibDateRangePicker)

	dr, ok := find(cmds, OpDateRange)
	require.True(t, ok)
	assert.Equal(t, f.ref("daterange-btn"), dr.Ref)
	assert.Len(t, dr.Config.(widget.DateRangeOptions).Ranges, 4)

	cmds = f.handle(Message{
		Type:  TypeDateRangeApply,
		ID:    dr.ID,
		Start: widget.Date(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
		End:   widget.Date(time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC)),
	})
	span := f.tree.QuerySelector("#daterange-btn span")
	assert.Equal(t, []Command{{Op: OpHTML, Ref: f.tree.Ref(span), Value: "1/10/2026 - 9/10/2026"}}, cmds)
}

func TestReportsWithoutPicker(t *testing.T) {
	f := newFixture(t, "reports.html")
	_, ok := find(f.hello(), OpDateRange)
	assert.False(t, ok)
}

func TestCalendarRoundTrip(t *testing.T) {
	f := newFixture(t, "calendar.html")
	cmds := f.hello(LibCalendar)

	cal, ok := find(cmds, OpCalendar)
	require.True(t, ok)
	opts := cal.Config.(widget.CalendarOptions)
	require.Len(t, opts.Events, 2)

	drop := opts.Events[1]
	drop.Start = "2026-10-19T10:00:00+07:00"
	cmds = f.handle(Message{Type: TypeCalendarDrop, ID: cal.ID, Event: &drop})
	require.Len(t, cmds, 1)
	assert.Contains(t, cmds[0].Config.(widget.ToastOptions).Text, "Tiêm Cúm - Trần Thị Bình")

	click := opts.Events[0]
	cmds = f.handle(Message{Type: TypeCalendarClick, ID: cal.ID, Event: &click})
	require.Len(t, cmds, 1)
	dialog := cmds[0]
	assert.Contains(t, dialog.Config.(widget.AlertOptions).HTML, "09:30")

	cmds = f.handle(Message{Type: TypeDialogResult, ID: dialog.ID, Confirmed: true})
	assert.Equal(t, []Command{{Op: OpNavigate, Value: "invoice-details.html"}}, cmds)

	kinds := map[string]bool{}
	for _, e := range f.state.Snapshot().Activity {
		kinds[e.Kind] = true
	}
	assert.True(t, kinds[admin.KindReschedule])
	assert.True(t, kinds[admin.KindNavigate])
}

func TestUnroutableMessages(t *testing.T) {
	f := newFixture(t, "vaccines.html")
	f.hello()

	assert.Empty(t, f.handle(Message{Type: TypeClick, Target: 9999}))
	assert.Empty(t, f.handle(Message{Type: TypeDialogResult, ID: "nope"}))
	assert.Empty(t, f.handle(Message{Type: TypeCalendarDrop, ID: "nope"}))
	assert.Empty(t, f.handle(Message{Type: "scroll"}))
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		in   dom.Mutation
		want Command
	}{
		{dom.Mutation{Op: dom.OpClassAdd, Ref: 3, Classes: []string{"a"}}, Command{Op: OpClass, Ref: 3, Add: []string{"a"}}},
		{dom.Mutation{Op: dom.OpClassRemove, Ref: 3, Classes: []string{"a"}}, Command{Op: OpClass, Ref: 3, Remove: []string{"a"}}},
		{dom.Mutation{Op: dom.OpAttr, Ref: 4, Name: "title", Value: "x"}, Command{Op: OpAttr, Ref: 4, Name: "title", Value: "x"}},
		{dom.Mutation{Op: dom.OpText, Ref: 5, Value: "t"}, Command{Op: OpText, Ref: 5, Value: "t"}},
		{dom.Mutation{Op: dom.OpHTML, Ref: 5, Value: "<b>t</b>"}, Command{Op: OpHTML, Ref: 5, Value: "<b>t</b>"}},
		{dom.Mutation{Op: dom.OpValue, Ref: 6, Value: "v"}, Command{Op: OpValue, Ref: 6, Value: "v"}},
		{dom.Mutation{Op: dom.OpReset, Ref: 7}, Command{Op: OpReset, Ref: 7}},
		{dom.Mutation{Op: dom.OpNavigate, Value: "x.html"}, Command{Op: OpNavigate, Value: "x.html"}},
	}
	for _, tt := range tests {
		t.Run(tt.in.Op, func(t *testing.T) {
			assert.Equal(t, tt.want, commandFor(tt.in))
		})
	}
}

func TestCommandEncoding(t *testing.T) {
	data, err := json.Marshal(Command{Op: OpChart, Ref: 12, Config: widget.ChartConfig{
		Type: "bar",
		Data: widget.ChartData{
			Labels: []string{"Tháng 5"},
			Datasets: []widget.Dataset{{
				Data:            []float64{28},
				BackgroundColor: widget.Colors{"rgba(0, 119, 182, 0.7)"},
				BorderColor:     widget.Colors{"#148e63", "#dc3545"},
			}},
		},
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"op": "chart",
		"ref": 12,
		"config": {
			"type": "bar",
			"data": {"labels": ["Tháng 5"], "datasets": [{
				"data": [28],
				"backgroundColor": "rgba(0, 119, 182, 0.7)",
				"borderColor": ["#148e63", "#dc3545"]
			}]},
			"options": {"responsive": false, "maintainAspectRatio": false}
		}
	}`, string(data))

	data, err = json.Marshal(widget.DateRangeOptions{
		Ranges:    []widget.NamedRange{{Label: "Hôm nay", Start: widget.Date(fixedNow), End: widget.Date(fixedNow)}},
		StartDate: widget.Date(fixedNow),
		EndDate:   widget.Date(fixedNow),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ranges":[{"label":"Hôm nay","start":"2026-10-17","end":"2026-10-17"}],"startDate":"2026-10-17","endDate":"2026-10-17"}`, string(data))
}

func TestMessageDecoding(t *testing.T) {
	var msg Message
	err := json.Unmarshal([]byte(`{"type":"daterange-apply","id":"x","start":"2026-10-01","end":"2026-10-09"}`), &msg)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Time(msg.Start))

	err = json.Unmarshal([]byte(`{"type":"submit","target":9,"values":{"12":"VC001"},"invalid":[13]}`), &msg)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{12: "VC001"}, msg.Values)
	assert.Equal(t, []int{13}, msg.Invalid)
}
