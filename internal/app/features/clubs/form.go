// internal/app/features/clubs/form.go
package clubs

import (
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type clubInput struct {
	Name    string `validate:"required,max=200" label:"Club name"`
	Address string `validate:"required,max=300" label:"Address"`
	City    string `validate:"required,max=100" label:"City"`
	State   string `validate:"required,max=50" label:"State"`
	ZipCode string `validate:"required,max=20" label:"ZIP code"`
	Phone   string `validate:"required,max=40" label:"Phone"`
	Email   string `validate:"required,clubemail" label:"Email"`
	Active  bool
}

func parseInput(r *http.Request) clubInput {
	get := func(k string) string { return strings.TrimSpace(r.PostFormValue(k)) }
	return clubInput{
		Name:    get("name"),
		Address: get("address"),
		City:    get("city"),
		State:   strings.ToUpper(get("state")),
		ZipCode: get("zip_code"),
		Phone:   get("phone"),
		Email:   strings.ToLower(get("email")),
		Active:  r.PostFormValue("active") == "on",
	}
}

func inputFrom(c models.Club) clubInput {
	return clubInput{
		Name: c.Name, Address: c.Address, City: c.City, State: c.State,
		ZipCode: c.ZipCode, Phone: c.Phone, Email: c.Email, Active: c.Active,
	}
}

func (in clubInput) apply(c *models.Club) error {
	if err := inputval.Validate(in).Err(); err != nil {
		return err
	}
	c.Name = in.Name
	c.Address = in.Address
	c.City = in.City
	c.State = in.State
	c.ZipCode = in.ZipCode
	c.Phone = in.Phone
	c.Email = in.Email
	c.Active = in.Active
	return nil
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, in clubInput, id string, errMsg string) {
	data := formData{Input: in, IsEdit: id != ""}
	if id == "" {
		formutil.SetBase(&data.Base, r, "Add Club", "/clubs")
		data.ActionURL = "/clubs"
		data.CancelURL = "/clubs"
	} else {
		formutil.SetBase(&data.Base, r, "Edit Club", "/clubs/"+id)
		data.ActionURL = "/clubs/" + id + "/edit"
		data.CancelURL = "/clubs/" + id
	}
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "club_form", data)
}

// ServeNew renders GET /clubs/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, clubInput{Active: true}, "", "")
}

// HandleCreate handles POST /clubs.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse club form", err, "Invalid form submission.", "/clubs")
		return
	}
	in := parseInput(r)
	var c models.Club
	if err := in.apply(&c); err != nil {
		h.renderForm(w, r, in, "", apiclient.Message(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create club")
	defer cancel()
	created, err := auth.APIClient(r, h.API).Clubs().Create(ctx, c)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, "", "Failed to create club: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordCreated(r.Context(), r, "clubs", created.ID, created.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Club created.")
	http.Redirect(w, r, "/clubs/"+created.ID, http.StatusSeeOther)
}

// ServeEdit renders GET /clubs/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get club")
	defer cancel()
	c, err := auth.APIClient(r, h.API).Clubs().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load club for edit", err, "/clubs")
		return
	}
	h.renderForm(w, r, inputFrom(c), id, "")
}

// HandleEdit handles POST /clubs/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse club form", err, "Invalid form submission.", "/clubs/"+id)
		return
	}
	in := parseInput(r)
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderForm(w, r, in, id, res.First())
		return
	}

	api := auth.APIClient(r, h.API).Clubs()
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update club")
	defer cancel()

	c, err := api.Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load club for update", err, "/clubs")
		return
	}
	if err := in.apply(&c); err != nil {
		h.renderForm(w, r, in, id, apiclient.Message(err))
		return
	}
	if _, err := api.Update(ctx, id, c); err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, id, "Failed to update club: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordUpdated(r.Context(), r, "clubs", id, c.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Club updated.")
	http.Redirect(w, r, "/clubs/"+id, http.StatusSeeOther)
}
