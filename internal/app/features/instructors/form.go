// internal/app/features/instructors/form.go
package instructors

import (
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type instructorInput struct {
	Name      string `validate:"required,max=200" label:"Name"`
	Email     string `validate:"required,clubemail" label:"Email"`
	Phone     string `validate:"required,max=40" label:"Phone"`
	Specialty string `validate:"required,max=200" label:"Specialty"`
	Bio       string `validate:"max=5000" label:"Bio"`
	Active    bool
	ClubIDs   []string
}

func parseInput(r *http.Request) instructorInput {
	get := func(k string) string { return strings.TrimSpace(r.PostFormValue(k)) }
	in := instructorInput{
		Name:      get("name"),
		Email:     strings.ToLower(get("email")),
		Phone:     get("phone"),
		Specialty: get("specialty"),
		Bio:       htmlsanitize.Sanitize(get("bio")),
		Active:    r.PostFormValue("active") == "on",
	}
	for _, id := range r.PostForm["club_ids"] {
		if id = strings.TrimSpace(id); id != "" {
			in.ClubIDs = append(in.ClubIDs, id)
		}
	}
	return in
}

func inputFrom(in models.Instructor) instructorInput {
	return instructorInput{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Specialty: in.Specialty,
		Bio:       in.Bio,
		Active:    in.Active,
		ClubIDs:   in.ClubIDs,
	}
}

func (in instructorInput) apply(m *models.Instructor) error {
	if err := inputval.Validate(in).Err(); err != nil {
		return err
	}
	m.Name = in.Name
	m.Email = in.Email
	m.Phone = in.Phone
	m.Specialty = in.Specialty
	m.Bio = in.Bio
	m.Active = in.Active
	m.ClubIDs = in.ClubIDs
	return nil
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, in instructorInput, id string, errMsg string) {
	data := formData{Input: in, IsEdit: id != ""}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "clubs for instructor form")
	defer cancel()
	if clubs, err := auth.APIClient(r, h.API).Clubs().List(ctx); err != nil {
		h.Log.Warn("clubs for instructor form", zap.Error(err))
	} else {
		data.Clubs = clubChoices(clubs, in.ClubIDs)
	}

	if id == "" {
		formutil.SetBase(&data.Base, r, "Add Instructor", "/instructors")
		data.ActionURL = "/instructors"
		data.CancelURL = "/instructors"
	} else {
		formutil.SetBase(&data.Base, r, "Edit Instructor", "/instructors/"+id)
		data.ActionURL = "/instructors/" + id + "/edit"
		data.CancelURL = "/instructors/" + id
	}
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "instructor_form", data)
}

func clubChoices(clubs []models.Club, selected []string) []clubChoice {
	on := make(map[string]bool, len(selected))
	for _, id := range selected {
		on[id] = true
	}
	out := make([]clubChoice, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, clubChoice{ID: c.ID, Name: c.Name, Checked: on[c.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ServeNew renders GET /instructors/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, instructorInput{Active: true}, "", "")
}

// HandleCreate handles POST /instructors.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse instructor form", err, "Invalid form submission.", "/instructors")
		return
	}
	in := parseInput(r)
	var m models.Instructor
	if err := in.apply(&m); err != nil {
		h.renderForm(w, r, in, "", apiclient.Message(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create instructor")
	defer cancel()
	created, err := auth.APIClient(r, h.API).Instructors().Create(ctx, m)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, "", "Failed to create instructor: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordCreated(r.Context(), r, "instructors", created.ID, created.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Instructor created.")
	http.Redirect(w, r, "/instructors/"+created.ID, http.StatusSeeOther)
}

// ServeEdit renders GET /instructors/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get instructor")
	defer cancel()
	m, err := auth.APIClient(r, h.API).Instructors().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load instructor for edit", err, "/instructors")
		return
	}
	h.renderForm(w, r, inputFrom(m), id, "")
}

// HandleEdit handles POST /instructors/{id}/edit. The stored record is
// read first so its timestamps go back unchanged.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse instructor form", err, "Invalid form submission.", "/instructors/"+id)
		return
	}
	in := parseInput(r)
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderForm(w, r, in, id, res.First())
		return
	}

	api := auth.APIClient(r, h.API).Instructors()
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update instructor")
	defer cancel()

	m, err := api.Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load instructor for update", err, "/instructors")
		return
	}
	if err := in.apply(&m); err != nil {
		h.renderForm(w, r, in, id, apiclient.Message(err))
		return
	}
	if _, err := api.Update(ctx, id, m); err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, id, "Failed to update instructor: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordUpdated(r.Context(), r, "instructors", id, m.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Instructor updated.")
	http.Redirect(w, r, "/instructors/"+id, http.StatusSeeOther)
}
