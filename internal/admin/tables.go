package admin

import "vax-admin/internal/widget"

var tableLanguage = widget.TableLanguage{
	Search: "Tìm kiếm:",
	Paginate: widget.TablePaginate{
		Next:     "Sau",
		Previous: "Trước",
	},
	Info:         "Hiển thị _START_ đến _END_ của _TOTAL_ mục",
	InfoEmpty:    "Không có dữ liệu",
	InfoFiltered: "(lọc từ _MAX_ mục)",
	ZeroRecords:  "Không tìm thấy kết quả phù hợp",
}

// InitTable upgrades the table at selector once. Missing tables and tables
// that were already upgraded are left alone.
func (p *Panel) InitTable(selector string) {
	if p.doc.QuerySelector(selector) == nil || p.w.Tables.IsUpgraded(selector) {
		return
	}
	p.w.Tables.Upgrade(selector, widget.TableOptions{
		Responsive:   true,
		LengthChange: false,
		AutoWidth:    false,
		Language:     tableLanguage,
	})
}
