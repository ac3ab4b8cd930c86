package admin

import (
	"fmt"

	"vax-admin/internal/widget"
)

var deleteDialog = widget.AlertOptions{
	Title:              "Bạn có chắc chắn?",
	Text:               "Hành động này không thể hoàn tác!",
	Icon:               widget.IconWarning,
	ShowCancelButton:   true,
	ConfirmButtonColor: "#0077b6",
	CancelButtonColor:  "#d33",
	ConfirmButtonText:  "Vâng, xóa nó!",
	CancelButtonText:   "Hủy",
}

// Toast shows a self-dismissing notification in the top-right corner. An
// empty icon means success.
func (p *Panel) Toast(title, text, icon string) {
	if icon == "" {
		icon = widget.IconSuccess
	}
	p.w.Alerts.Toast(widget.ToastOptions{
		Title:             title,
		Text:              text,
		Icon:              icon,
		Position:          "top-end",
		ShowConfirmButton: false,
		TimerMillis:       p.toastTimeout.Milliseconds(),
		TimerProgressBar:  true,
		PauseOnHover:      true,
	})
	p.recorder.Record(KindToast, title+" "+text)
}

// ConfirmDelete asks before pretending to delete an item of kind label.
// Nothing is removed; confirming only shows a toast.
func (p *Panel) ConfirmDelete(label string) {
	p.w.Alerts.Fire(deleteDialog, func(res widget.AlertResult) {
		if !res.Confirmed {
			return
		}
		p.recorder.Record(KindDelete, label)
		p.Toast("Đã xóa!", fmt.Sprintf("%s đã được xóa.", label), widget.IconSuccess)
	})
}
