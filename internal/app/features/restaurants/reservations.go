// internal/app/features/restaurants/reservations.go
package restaurants

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

var reservationOptions = listpage.Options[models.Reservation]{
	Kind:  listctl.Reservations,
	Title: "Reservations",
	Fields: func(rv models.Reservation) []string {
		return []string{rv.GuestName, rv.GuestEmail, rv.GuestPhone, rv.SpecialRequests}
	},
	Sorts: map[string]listpage.Sort[models.Reservation]{
		"when":   listpage.ByTime(func(rv models.Reservation) time.Time { return rv.DateTime }),
		"guest":  listpage.ByText(func(rv models.Reservation) string { return rv.GuestName }),
		"party":  listpage.ByInt(func(rv models.Reservation) int { return rv.PartySize }),
		"status": listpage.ByText(func(rv models.Reservation) string { return rv.Status }),
	},
	DefaultSort: "when",
}

// tabStatuses are the filter buttons above the reservation table; "" is all.
var tabStatuses = []option{
	{Value: "", Label: "All"},
	{Value: "confirmed", Label: "Confirmed"},
	{Value: "completed", Label: "Completed"},
	{Value: "cancelled", Label: "Cancelled"},
}

func reservationsURL(restaurantID string) string {
	return "/restaurants/" + restaurantID + "/reservations"
}

func reservationSource(api *apiclient.Client, restaurantID string) listctl.Source[models.Reservation] {
	return api.Reservations().Where("restaurant_id", restaurantID)
}

func statusTabs(items []models.Reservation, current, base string) []statusTab {
	tabs := make([]statusTab, 0, len(tabStatuses))
	for _, st := range tabStatuses {
		n := 0
		for _, rv := range items {
			if st.Value == "" || rv.Status == st.Value {
				n++
			}
		}
		u := base
		if st.Value != "" {
			u += "?" + url.Values{"status": {st.Value}}.Encode()
		}
		tabs = append(tabs, statusTab{Label: st.Label, URL: u, Count: n, Active: st.Value == current})
	}
	return tabs
}

func newReservationRow(restaurantID string) func(models.Reservation) reservationRow {
	return func(rv models.Reservation) reservationRow {
		return reservationRow{
			ID:              rv.ID,
			Guest:           rv.GuestName,
			SpecialRequests: rv.SpecialRequests,
			Email:           rv.GuestEmail,
			Phone:           rv.GuestPhone,
			When:            format.DateTime(rv.DateTime),
			Party:           strconv.Itoa(rv.PartySize) + " guests",
			Status:          rv.Status,
			StatusClass:     format.BookingStatusClass(rv.Status),
			DeleteURL:       reservationsURL(restaurantID) + "/" + rv.ID + "/delete",
		}
	}
}

// ServeReservations renders GET /restaurants/{id}/reservations, optionally
// narrowed by ?status=.
func (h *Handler) ServeReservations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	api := auth.APIClient(r, h.API)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get restaurant")
	rs, err := api.Restaurants().Get(ctx, id)
	cancel()
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load restaurant", err, "/restaurants")
		return
	}

	ctl, notes, ok := listpage.Open(w, r, listctl.Reservations, reservationSource(api, id), reservationID, h.Log)
	if !ok {
		return
	}
	defer ctl.Dispose()

	status := query.Get(r, "status")
	opt := reservationOptions
	if status != "" {
		opt.Keep = func(rv models.Reservation) bool { return rv.Status == status }
	}
	st := ctl.State()

	data := reservationsData{
		BaseVM:         viewdata.NewBaseVM(r, rs.Name+" Reservations", "/restaurants/"+id),
		RestaurantID:   id,
		RestaurantName: rs.Name,
		Tabs:           statusTabs(st.Items, status, reservationsURL(id)),
		List:           listpage.Build(r, st, notes.Messages(), opt, newReservationRow(id)),
	}
	templates.Render(w, r, "reservations_list", data)
}

// ServeReservationConfirm handles GET /restaurants/{id}/reservations/{resID}/delete.
func (h *Handler) ServeReservationConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resID := chi.URLParam(r, "resID")
	back := reservationsURL(id)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get reservation")
	defer cancel()
	rv, err := auth.APIClient(r, h.API).Reservations().Get(ctx, resID)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load reservation for delete", err, back)
		return
	}
	data := listpage.ConfirmData{
		BaseVM:    viewdata.NewBaseVM(r, "Delete Reservation", back),
		Prompt:    listpage.ConfirmPrompt(listctl.Reservations),
		Label:     rv.GuestName + ", " + format.DateTime(rv.DateTime),
		ActionURL: back + "/" + resID + "/delete",
		CancelURL: back,
	}
	templates.Render(w, r, "confirm_delete", data)
}

// HandleReservationDelete handles POST /restaurants/{id}/reservations/{resID}/delete.
// The controller only lists this restaurant's reservations, so an id
// from another restaurant is refused without a delete call.
func (h *Handler) HandleReservationDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resID := chi.URLParam(r, "resID")
	back := reservationsURL(id)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse delete form", err, "Invalid form submission.", back)
		return
	}
	answer := r.PostFormValue("confirm") == "yes"

	ctl := listctl.New(listctl.Reservations,
		reservationSource(auth.APIClient(r, h.API), id),
		reservationID,
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete reservation")
	defer cancel()

	err := ctl.Remove(ctx, resID)
	switch {
	case err == nil:
		h.AuditLog.RecordDeleted(r.Context(), r, "reservations", resID)
		h.SM.AddFlash(w, r, auth.FlashSuccess, "Reservation deleted.")
	case errors.Is(err, apiclient.ErrMutation):
		h.AuditLog.DeleteFailed(r.Context(), r, "reservations", resID, apiclient.Message(err))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
