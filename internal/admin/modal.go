package admin

import (
	"fmt"

	"vax-admin/internal/dom"
	"vax-admin/internal/widget"
)

const (
	editTriggers   = ".btn-edit, .btn-edit-customer"
	deleteTriggers = ".btn-delete, .btn-delete-customer"
	hiddenIDField  = `input[type="hidden"][id*="Id"]`

	// ModalHiddenEvent fires on a modal element after it has closed.
	ModalHiddenEvent = "hidden.bs.modal"
)

// ModalBinding ties the add/edit/delete buttons of one table to a modal form.
type ModalBinding struct {
	TableSelector string
	ModalSelector string
	// ItemLabel names the item kind in toasts, e.g. "vắc xin".
	ItemLabel     string
	TitleSelector string

	// OnShow runs before the modal opens for an edit. form may be nil.
	OnShow func(m widget.Modal, form dom.Element)
	// OnHide runs after the form has been reset on close.
	OnHide func(form dom.Element)
}

// BindModal wires b. It does nothing when the modal is not on the page.
func (p *Panel) BindModal(b ModalBinding) {
	modalEl := p.doc.QuerySelector(b.ModalSelector)
	if modalEl == nil {
		return
	}
	form := modalEl.QuerySelector("form")
	modal := p.w.Modals.New(modalEl)

	if table := p.doc.QuerySelector(b.TableSelector); table != nil {
		table.Delegate("click", editTriggers, func(*dom.Event) {
			if b.OnShow != nil {
				b.OnShow(modal, form)
			}
			modal.Show()
		})
		table.Delegate("click", deleteTriggers, func(*dom.Event) {
			p.ConfirmDelete(b.ItemLabel)
		})
	}

	if form != nil {
		form.AddEventListener("submit", func(ev *dom.Event) {
			ev.PreventDefault()
			if !form.CheckValidity() {
				ev.StopPropagation()
				form.AddClass(validatedClass)
				return
			}
			action := "thêm mới"
			if id := form.QuerySelector(hiddenIDField); id != nil && id.Value() != "" {
				action = "cập nhật"
			}
			form.AddClass(validatedClass)
			modal.Hide()
			p.Toast("Thành công!", fmt.Sprintf("Đã %s %s thành công.", action, b.ItemLabel), widget.IconSuccess)
		})
	}

	modalEl.AddEventListener(ModalHiddenEvent, func(*dom.Event) {
		if form != nil {
			form.Reset()
			form.RemoveClass(validatedClass)
		}
		if b.OnHide != nil {
			b.OnHide(form)
		}
	})
}

func (p *Panel) setText(selector, text string) {
	if el := p.doc.QuerySelector(selector); el != nil {
		el.SetText(text)
	}
}

func (p *Panel) setValue(id, value string) {
	if el := p.doc.GetElementByID(id); el != nil {
		el.SetValue(value)
	}
}
