// internal/app/features/restaurants/reservation_form.go
package restaurants

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// dateTimeInput is the layout of <input type="datetime-local">.
const dateTimeInput = "2006-01-02T15:04"

type reservationInput struct {
	MemberID        string `validate:"required" label:"Member"`
	DateTime        string `validate:"required" label:"Date & time"`
	PartySize       int    `validate:"gte=1,lte=100" label:"Party size"`
	Status          string `validate:"oneof=confirmed cancelled completed no-show" label:"Status"`
	SpecialRequests string `validate:"max=1000" label:"Special requests"`
	Notes           string `validate:"max=2000" label:"Notes"`
}

func parseReservation(r *http.Request) reservationInput {
	get := func(k string) string { return strings.TrimSpace(r.PostFormValue(k)) }
	party, _ := strconv.Atoi(get("party_size"))
	return reservationInput{
		MemberID:        get("member_id"),
		DateTime:        get("date_time"),
		PartySize:       party,
		Status:          get("status"),
		SpecialRequests: get("special_requests"),
		Notes:           get("notes"),
	}
}

// withinHours reports whether the clock time of at falls inside the
// restaurant's "15:04" opening hours, inclusive. Unset or unparseable hours
// accept any time.
func withinHours(at time.Time, opening, closing string) bool {
	if !inputval.IsValidClock(opening) || !inputval.IsValidClock(closing) {
		return true
	}
	hm := at.Format("15:04")
	return hm >= strings.TrimSpace(opening) && hm <= strings.TrimSpace(closing)
}

// build checks in against the restaurant and returns the reservation to
// post. Guest details are copied from the chosen member.
func (in reservationInput) build(rs models.Restaurant, member models.Member, loc *time.Location) (models.Reservation, error) {
	if err := inputval.Validate(in).Err(); err != nil {
		return models.Reservation{}, err
	}
	at, err := time.ParseInLocation(dateTimeInput, in.DateTime, loc)
	if err != nil {
		return models.Reservation{}, apiclient.Invalid("date_time", "Date & time must be a date and time.")
	}
	if !withinHours(at, rs.OpeningTime, rs.ClosingTime) {
		return models.Reservation{}, apiclient.Invalid("date_time",
			"Restaurant is only open from "+rs.OpeningTime+" to "+rs.ClosingTime)
	}
	return models.Reservation{
		RestaurantID:    rs.ID,
		MemberID:        member.ID,
		GuestName:       member.FullName(),
		GuestEmail:      member.Email,
		GuestPhone:      member.Phone,
		PartySize:       in.PartySize,
		DateTime:        at,
		Status:          in.Status,
		SpecialRequests: in.SpecialRequests,
		Notes:           in.Notes,
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

func statusOptions(selected string) []option {
	out := make([]option, len(ReservationStatuses))
	for i, o := range ReservationStatuses {
		o.Selected = o.Value == selected
		out[i] = o
	}
	return out
}

func (h *Handler) renderReservationForm(w http.ResponseWriter, r *http.Request, rs models.Restaurant, in reservationInput, errMsg string) {
	back := reservationsURL(rs.ID)
	data := reservationFormData{
		RestaurantID: rs.ID,
		Hours:        hours(rs),
		Input:        in,
		Statuses:     statusOptions(in.Status),
		ActionURL:    back,
		CancelURL:    back,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "members for reservation form")
	defer cancel()
	members, err := auth.APIClient(r, h.API).Members().List(ctx)
	switch {
	case err != nil:
		h.Log.Warn("members for reservation form", zap.Error(err))
		data.MemberNote = "Members could not be loaded."
	case len(members) == 0:
		data.MemberNote = "No members found"
	default:
		data.Members = memberOptions(members, in.MemberID)
	}

	formutil.SetBase(&data.Base, r, "New Reservation", back)
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "reservation_form", data)
}

func (h *Handler) restaurantFor(w http.ResponseWriter, r *http.Request) (models.Restaurant, bool) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get restaurant")
	defer cancel()
	rs, err := auth.APIClient(r, h.API).Restaurants().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load restaurant", err, "/restaurants")
		return rs, false
	}
	if rs.ID == "" {
		rs.ID = id
	}
	return rs, true
}

// ServeNewReservation renders GET /restaurants/{id}/reservations/new.
func (h *Handler) ServeNewReservation(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.restaurantFor(w, r)
	if !ok {
		return
	}
	h.renderReservationForm(w, r, rs, reservationInput{PartySize: 2, Status: "confirmed"}, "")
}

// HandleCreateReservation handles POST /restaurants/{id}/reservations.
func (h *Handler) HandleCreateReservation(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.restaurantFor(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse reservation form", err, "Invalid form submission.", reservationsURL(rs.ID))
		return
	}
	in := parseReservation(r)
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderReservationForm(w, r, rs, in, res.First())
		return
	}

	api := auth.APIClient(r, h.API)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create reservation")
	defer cancel()

	member, err := api.Members().Get(ctx, in.MemberID)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderReservationForm(w, r, rs, in, "Failed to load member: "+apiclient.Message(err))
		return
	}
	rv, err := in.build(rs, member, h.now().Location())
	if err != nil {
		h.renderReservationForm(w, r, rs, in, apiclient.Message(err))
		return
	}
	created, err := api.Reservations().Create(ctx, rv)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderReservationForm(w, r, rs, in, "Failed to create reservation: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordCreated(r.Context(), r, "reservations", created.ID, created.GuestName)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Reservation created.")
	http.Redirect(w, r, reservationsURL(rs.ID), http.StatusSeeOther)
}
