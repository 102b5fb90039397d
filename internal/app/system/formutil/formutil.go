// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form is re-rendered with the
// values the user entered and an error message. Embed Base in the page's data
// struct and populate it with SetBase.
//
//	type passwordData struct {
//		formutil.Base
//	}
//
//	var data passwordData
//	formutil.SetBase(&data.Base, r, "Change Password", "/profile")
//	data.SetError("New passwords do not match")
//	templates.Render(w, r, "password_form", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
)

// Base contains common fields for form pages.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// SetBase populates the embedded BaseVM from the request.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets the error message, escaping it for HTML.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}
