// internal/app/features/offices/form.go
package offices

import (
	"net/http"
	"strconv"
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

type officeInput struct {
	Name        string   `validate:"required,max=200" label:"Office name"`
	ClubID      string   `validate:"required" label:"Club"`
	Description string   `validate:"max=2000" label:"Description"`
	Type        string   `validate:"oneof=private shared meeting_room phone_booth" label:"Office type"`
	Capacity    int      `validate:"gte=1,lte=500" label:"Capacity"`
	HourlyRate  float64  `validate:"gte=0" label:"Hourly rate"`
	DailyRate   float64  `validate:"gte=0" label:"Daily rate"`
	Amenities   []string
	Active      bool
}

// splitAmenities turns "WiFi, Printer,,Whiteboard" into its non-blank parts.
func splitAmenities(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func parseInput(r *http.Request) officeInput {
	get := func(k string) string { return strings.TrimSpace(r.PostFormValue(k)) }
	capacity, _ := strconv.Atoi(get("capacity"))
	hourly, _ := strconv.ParseFloat(get("hourly_rate"), 64)
	daily, _ := strconv.ParseFloat(get("daily_rate"), 64)
	return officeInput{
		Name:        get("name"),
		ClubID:      get("club_id"),
		Description: get("description"),
		Type:        get("type"),
		Capacity:    capacity,
		HourlyRate:  hourly,
		DailyRate:   daily,
		Amenities:   splitAmenities(r.PostFormValue("amenities")),
		Active:      r.PostFormValue("active") == "on",
	}
}

func inputFrom(o models.Office) officeInput {
	return officeInput{
		Name: o.Name, ClubID: o.ClubID, Description: o.Description, Type: o.Type,
		Capacity: o.Capacity, HourlyRate: o.HourlyRate, DailyRate: o.DailyRate,
		Amenities: o.Amenities, Active: o.Active,
	}
}

// AmenitiesText is the comma-joined form of Amenities for the text input.
func (in officeInput) AmenitiesText() string { return strings.Join(in.Amenities, ", ") }

func (in officeInput) apply(o *models.Office) error {
	if err := inputval.Validate(in).Err(); err != nil {
		return err
	}
	o.Name = in.Name
	o.ClubID = in.ClubID
	o.Description = in.Description
	o.Type = in.Type
	o.Capacity = in.Capacity
	o.HourlyRate = in.HourlyRate
	o.DailyRate = in.DailyRate
	o.Amenities = in.Amenities
	if o.Amenities == nil {
		o.Amenities = []string{}
	}
	o.Active = in.Active
	return nil
}

func typeOptions(selected string) []option {
	out := make([]option, len(OfficeTypes))
	for i, o := range OfficeTypes {
		o.Selected = o.Value == selected
		out[i] = o
	}
	return out
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, in officeInput, id string, errMsg string) {
	data := formData{
		Input:  in,
		IsEdit: id != "",
		Clubs:  clubOptions(h.clubs(r.Context(), auth.APIClient(r, h.API)), in.ClubID),
		Types:  typeOptions(in.Type),
	}
	if id == "" {
		formutil.SetBase(&data.Base, r, "Add Office", "/offices")
		data.ActionURL = "/offices"
		data.CancelURL = "/offices"
	} else {
		formutil.SetBase(&data.Base, r, "Edit Office", "/offices/"+id)
		data.ActionURL = "/offices/" + id + "/edit"
		data.CancelURL = "/offices/" + id
	}
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "office_form", data)
}

// ServeNew renders GET /offices/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, officeInput{Type: "private", Capacity: 1, Active: true}, "", "")
}

// HandleCreate handles POST /offices.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse office form", err, "Invalid form submission.", "/offices")
		return
	}
	in := parseInput(r)
	var o models.Office
	if err := in.apply(&o); err != nil {
		h.renderForm(w, r, in, "", apiclient.Message(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create office")
	defer cancel()
	created, err := auth.APIClient(r, h.API).Offices().Create(ctx, o)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, "", "Failed to create office: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordCreated(r.Context(), r, "offices", created.ID, created.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Office created.")
	http.Redirect(w, r, "/offices/"+created.ID, http.StatusSeeOther)
}

// ServeEdit renders GET /offices/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get office")
	defer cancel()
	o, err := auth.APIClient(r, h.API).Offices().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load office for edit", err, "/offices")
		return
	}
	h.renderForm(w, r, inputFrom(o), id, "")
}

// HandleEdit handles POST /offices/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse office form", err, "Invalid form submission.", "/offices/"+id)
		return
	}
	in := parseInput(r)
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderForm(w, r, in, id, res.First())
		return
	}

	api := auth.APIClient(r, h.API).Offices()
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update office")
	defer cancel()

	o, err := api.Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load office for update", err, "/offices")
		return
	}
	if err := in.apply(&o); err != nil {
		h.renderForm(w, r, in, id, apiclient.Message(err))
		return
	}
	if _, err := api.Update(ctx, id, o); err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, id, "Failed to update office: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordUpdated(r.Context(), r, "offices", id, o.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Office updated.")
	http.Redirect(w, r, "/offices/"+id, http.StatusSeeOther)
}
