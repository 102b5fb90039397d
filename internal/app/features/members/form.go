// internal/app/features/members/form.go
package members

import (
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// memberInput is the member form as posted.
type memberInput struct {
	FirstName        string `validate:"required,max=100" label:"First name"`
	LastName         string `validate:"required,max=100" label:"Last name"`
	Email            string `validate:"required,clubemail" label:"Email"`
	Phone            string `validate:"max=40" label:"Phone"`
	MembershipType   string `validate:"required,oneof=basic premium vip student senior" label:"Membership type"`
	Status           string `validate:"required,oneof=active inactive suspended expired" label:"Status"`
	JoinDate         string `validate:"isodate" label:"Join date"`
	ExpiryDate       string `validate:"isodate" label:"Expiry date"`
	AutoRenewal      bool
	EmergencyContact string `validate:"max=200" label:"Emergency contact"`
	Notes            string `validate:"max=5000" label:"Notes"`
}

func parseInput(r *http.Request) memberInput {
	get := func(k string) string { return strings.TrimSpace(r.PostFormValue(k)) }
	return memberInput{
		FirstName:        get("first_name"),
		LastName:         get("last_name"),
		Email:            strings.ToLower(get("email")),
		Phone:            get("phone"),
		MembershipType:   get("membership_type"),
		Status:           get("status"),
		JoinDate:         get("join_date"),
		ExpiryDate:       get("expiry_date"),
		AutoRenewal:      r.PostFormValue("auto_renewal") == "on",
		EmergencyContact: get("emergency_contact"),
		Notes:            htmlsanitize.Sanitize(get("notes")),
	}
}

func inputFrom(m models.Member) memberInput {
	return memberInput{
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Email:            m.Email,
		Phone:            m.Phone,
		MembershipType:   m.MembershipType,
		Status:           m.Status,
		JoinDate:         format.InputValue(m.JoinDate),
		ExpiryDate:       format.InputValue(m.ExpiryDate),
		AutoRenewal:      m.AutoRenewal,
		EmergencyContact: m.EmergencyContact,
		Notes:            m.Notes,
	}
}

// apply checks the input and, when it passes, copies it onto m.
// The expiry date may not precede the join date.
func (in memberInput) apply(m *models.Member) error {
	if err := inputval.Validate(in).Err(); err != nil {
		return err
	}
	join, _ := format.ParseInputDate(in.JoinDate)
	expiry, _ := format.ParseInputDate(in.ExpiryDate)
	if !join.IsZero() && !expiry.IsZero() && expiry.Before(join) {
		return apiclient.Invalid("Expiry date", "Expiry date must be on or after the join date.")
	}
	m.FirstName = in.FirstName
	m.LastName = in.LastName
	m.Email = in.Email
	m.Phone = in.Phone
	m.MembershipType = in.MembershipType
	m.Status = in.Status
	m.JoinDate = join
	m.ExpiryDate = expiry
	m.AutoRenewal = in.AutoRenewal
	m.EmergencyContact = in.EmergencyContact
	m.Notes = in.Notes
	return nil
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, in memberInput, id string, errMsg string) {
	data := formData{
		Input:           in,
		IsEdit:          id != "",
		MembershipTypes: MembershipTypes,
		Statuses:        Statuses,
	}
	if id == "" {
		formutil.SetBase(&data.Base, r, "Add Member", "/members")
		data.ActionURL = "/members"
		data.CancelURL = "/members"
	} else {
		formutil.SetBase(&data.Base, r, "Edit Member", "/members/"+id)
		data.ActionURL = "/members/" + id + "/edit"
		data.CancelURL = "/members/" + id
	}
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "member_form", data)
}

// ServeNew renders GET /members/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, memberInput{MembershipType: "basic", Status: models.MemberActive}, "", "")
}

// HandleCreate handles POST /members.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse member form", err, "Invalid form submission.", "/members")
		return
	}
	in := parseInput(r)
	var m models.Member
	if err := in.apply(&m); err != nil {
		h.renderForm(w, r, in, "", apiclient.Message(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create member")
	defer cancel()
	created, err := auth.APIClient(r, h.API).Members().Create(ctx, m)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, "", "Failed to create member: "+apiclient.Message(err))
		return
	}

	h.AuditLog.RecordCreated(r.Context(), r, "members", created.ID, created.FullName())
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Member created.")
	http.Redirect(w, r, "/members/"+created.ID, http.StatusSeeOther)
}

// ServeEdit renders GET /members/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get member")
	defer cancel()
	m, err := auth.APIClient(r, h.API).Members().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load member for edit", err, "/members")
		return
	}
	h.renderForm(w, r, inputFrom(m), id, "")
}

// HandleEdit handles POST /members/{id}/edit. The stored record is read
// first so fields the form does not show survive the update.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse member form", err, "Invalid form submission.", "/members/"+id)
		return
	}
	in := parseInput(r)
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderForm(w, r, in, id, res.First())
		return
	}

	api := auth.APIClient(r, h.API).Members()
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update member")
	defer cancel()

	m, err := api.Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load member for update", err, "/members")
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
		h.renderForm(w, r, in, id, "Failed to update member: "+apiclient.Message(err))
		return
	}

	h.AuditLog.RecordUpdated(r.Context(), r, "members", id, m.FullName())
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Member updated.")
	http.Redirect(w, r, "/members/"+id, http.StatusSeeOther)
}
