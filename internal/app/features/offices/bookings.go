// internal/app/features/offices/bookings.go
package offices

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type bookingInput struct {
	MemberID  string `validate:"required" label:"Member"`
	StartDate string `validate:"required,isodate" label:"Start date"`
	StartTime string `validate:"required,clock" label:"Start time"`
	EndDate   string `validate:"required,isodate" label:"End date"`
	EndTime   string `validate:"required,clock" label:"End time"`
	Notes     string `validate:"max=2000" label:"Notes"`
}

func parseBooking(r *http.Request) bookingInput {
	get := func(k string) string { return strings.TrimSpace(r.PostFormValue(k)) }
	return bookingInput{
		MemberID:  get("member_id"),
		StartDate: get("start_date"),
		StartTime: get("start_time"),
		EndDate:   get("end_date"),
		EndTime:   get("end_time"),
		Notes:     get("notes"),
	}
}

// bookingCost bills every started hour at the hourly rate.
func bookingCost(start, end time.Time, hourlyRate float64) float64 {
	hours := math.Ceil(end.Sub(start).Hours())
	if hours < 0 {
		hours = 0
	}
	return hours * hourlyRate
}

// build checks in and returns the confirmed booking to post.
func (in bookingInput) build(o models.Office, loc *time.Location) (models.OfficeBooking, error) {
	if err := inputval.Validate(in).Err(); err != nil {
		return models.OfficeBooking{}, err
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", in.StartDate+" "+in.StartTime, loc)
	if err != nil {
		return models.OfficeBooking{}, apiclient.Invalid("start_time", "Start must be a date and time.")
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", in.EndDate+" "+in.EndTime, loc)
	if err != nil {
		return models.OfficeBooking{}, apiclient.Invalid("end_time", "End must be a date and time.")
	}
	if !end.After(start) {
		return models.OfficeBooking{}, apiclient.Invalid("end_time", "End time must be after start time")
	}
	return models.OfficeBooking{
		OfficeID:  o.ID,
		MemberID:  in.MemberID,
		StartTime: start,
		EndTime:   end,
		Status:    "confirmed",
		TotalCost: bookingCost(start, end, o.HourlyRate),
		Notes:     in.Notes,
	}, nil
}

func memberOptions(members []models.Member, selected string) []memberOption {
	sorted := make([]models.Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FullName() < sorted[j].FullName() })
	out := make([]memberOption, 0, len(sorted))
	for _, m := range sorted {
		label := m.FullName()
		if m.Email != "" {
			label += " (" + m.Email + ")"
		}
		out = append(out, memberOption{ID: m.ID, Label: label, Selected: m.ID == selected})
	}
	return out
}

func (h *Handler) officeFor(w http.ResponseWriter, r *http.Request) (models.Office, bool) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get office")
	defer cancel()
	o, err := auth.APIClient(r, h.API).Offices().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load office", err, "/offices")
		return o, false
	}
	if o.ID == "" {
		o.ID = id
	}
	return o, true
}

func (h *Handler) renderBookingForm(w http.ResponseWriter, r *http.Request, o models.Office, in bookingInput, errMsg string) {
	back := "/offices/" + o.ID
	data := bookingFormData{
		OfficeID:   o.ID,
		OfficeName: o.Name,
		HourlyRate: format.Money(o.HourlyRate) + "/hour",
		Input:      in,
		ActionURL:  back + "/bookings",
		CancelURL:  back,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "members for booking form")
	defer cancel()
	members, err := auth.APIClient(r, h.API).Members().List(ctx)
	switch {
	case err != nil:
		h.Log.Warn("members for booking form", zap.Error(err))
		data.MemberNote = "Members could not be loaded."
	case len(members) == 0:
		data.MemberNote = "No members found"
	default:
		data.Members = memberOptions(members, in.MemberID)
	}

	formutil.SetBase(&data.Base, r, "New Booking", back)
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "booking_form", data)
}

// ServeNewBooking renders GET /offices/{id}/bookings/new. The form starts
// on today, 09:00 to 17:00.
func (h *Handler) ServeNewBooking(w http.ResponseWriter, r *http.Request) {
	o, ok := h.officeFor(w, r)
	if !ok {
		return
	}
	today := format.InputValue(h.now())
	h.renderBookingForm(w, r, o, bookingInput{StartDate: today, StartTime: "09:00", EndDate: today, EndTime: "17:00"}, "")
}

// HandleCreateBooking handles POST /offices/{id}/bookings.
func (h *Handler) HandleCreateBooking(w http.ResponseWriter, r *http.Request) {
	o, ok := h.officeFor(w, r)
	if !ok {
		return
	}
	back := "/offices/" + o.ID
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse booking form", err, "Invalid form submission.", back)
		return
	}
	in := parseBooking(r)
	b, err := in.build(o, h.now().Location())
	if err != nil {
		h.renderBookingForm(w, r, o, in, apiclient.Message(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create booking")
	defer cancel()
	created, err := auth.APIClient(r, h.API).OfficeBookings().Create(ctx, b)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderBookingForm(w, r, o, in, "Failed to create booking: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordCreated(r.Context(), r, "office_bookings", created.ID, o.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Booking created.")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// ServeBookingConfirm handles GET /offices/{id}/bookings/{bookingID}/delete.
func (h *Handler) ServeBookingConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	bid := chi.URLParam(r, "bookingID")
	back := "/offices/" + id

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get booking")
	defer cancel()
	b, err := auth.APIClient(r, h.API).OfficeBookings().Get(ctx, bid)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load booking for delete", err, back)
		return
	}
	data := listpage.ConfirmData{
		BaseVM:    viewdata.NewBaseVM(r, "Delete Booking", back),
		Prompt:    listpage.ConfirmPrompt(listctl.OfficeBookings),
		Label:     format.DateTime(b.StartTime) + " to " + format.DateTime(b.EndTime),
		ActionURL: back + "/bookings/" + bid + "/delete",
		CancelURL: back,
	}
	templates.Render(w, r, "confirm_delete", data)
}

// HandleBookingDelete handles POST /offices/{id}/bookings/{bookingID}/delete.
// Only bookings of this office can be removed.
func (h *Handler) HandleBookingDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	bid := chi.URLParam(r, "bookingID")
	back := "/offices/" + id
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse delete form", err, "Invalid form submission.", back)
		return
	}
	answer := r.PostFormValue("confirm") == "yes"

	ctl := listctl.New(listctl.OfficeBookings,
		bookingSource(auth.APIClient(r, h.API), id),
		bookingID,
		listctl.ConfirmFunc(func(string) bool { return answer }),
		h.SM.Notifier(w, r),
		listctl.WithLogger(h.Log),
	)
	defer ctl.Dispose()

	if err := listpage.Load(r.Context(), ctl, h.Log); err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete booking")
	defer cancel()

	err := ctl.Remove(ctx, bid)
	switch {
	case err == nil:
		h.AuditLog.RecordDeleted(r.Context(), r, "office_bookings", bid)
		h.SM.AddFlash(w, r, auth.FlashSuccess, "Booking deleted.")
	case errors.Is(err, apiclient.ErrMutation):
		h.AuditLog.DeleteFailed(r.Context(), r, "office_bookings", bid, apiclient.Message(err))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
