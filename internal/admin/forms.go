package admin

import "vax-admin/internal/dom"

const validatedClass = "was-validated"

// InstallFormValidation makes every form.needs-validation refuse to submit
// while any control is invalid. The form is marked validated on every
// attempt so the feedback styles show.
func (p *Panel) InstallFormValidation() {
	for _, form := range p.doc.QuerySelectorAll("form.needs-validation") {
		form.AddEventListener("submit", func(ev *dom.Event) {
			if !form.CheckValidity() {
				ev.PreventDefault()
				ev.StopPropagation()
			}
			form.AddClass(validatedClass)
		})
	}
}
