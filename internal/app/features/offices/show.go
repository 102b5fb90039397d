// internal/app/features/offices/show.go
package offices

import (
	"math"
	"net/http"
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
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var bookingOptions = listpage.Options[models.OfficeBooking]{
	Kind:  listctl.OfficeBookings,
	Title: "Bookings",
	Sorts: map[string]listpage.Sort[models.OfficeBooking]{
		"start":  listpage.ByTime(func(b models.OfficeBooking) time.Time { return b.StartTime }),
		"cost":   listpage.ByFloat(func(b models.OfficeBooking) float64 { return b.TotalCost }),
		"status": listpage.ByText(func(b models.OfficeBooking) string { return b.Status }),
	},
	DefaultSort: "start",
}

func bookingSource(api *apiclient.Client, officeID string) listctl.Source[models.OfficeBooking] {
	return api.OfficeBookings().Where("office_id", officeID)
}

// ServeShow renders GET /offices/{id}: the office and its bookings.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	api := auth.APIClient(r, h.API)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "office detail")
	defer cancel()

	o, err := api.Offices().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load office", err, "/offices")
		return
	}
	var club *models.Club
	if o.ClubID != "" {
		if c, err := api.Clubs().Get(ctx, o.ClubID); err == nil {
			club = &c
		} else {
			h.Log.Warn("club for office failed", zap.String("office_id", id), zap.Error(err))
		}
	}

	ctl, notes, ok := listpage.Open(w, r, listctl.OfficeBookings, bookingSource(api, id), bookingID, h.Log)
	if !ok {
		return
	}
	defer ctl.Dispose()

	names := h.memberNames(r, api)
	data := buildShow(o, club)
	data.Bookings = listpage.Build(r, ctl.State(), notes.Messages(), bookingOptions, func(b models.OfficeBooking) bookingRow {
		return newBookingRow(b, id, names)
	})
	data.BaseVM = viewdata.NewBaseVM(r, o.Name, "/offices")
	templates.Render(w, r, "office_show", data)
}

// memberNames maps member id to full name for the bookings table. A
// failed load leaves the member column blank.
func (h *Handler) memberNames(r *http.Request, api *apiclient.Client) map[string]string {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "member names")
	defer cancel()
	members, err := api.Members().List(ctx)
	if err != nil {
		h.Log.Warn("member names for bookings failed", zap.Error(err))
		return nil
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.FullName()
	}
	return names
}

func buildShow(o models.Office, club *models.Club) showData {
	d := showData{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Type:        typeLabel(o.Type),
		Capacity:    capacityLabel(o.Capacity),
		HourlyRate:  format.Money(o.HourlyRate) + "/hour",
		DailyRate:   format.Money(o.DailyRate) + "/day",
		Amenities:   o.Amenities,
		ActiveLabel: format.ActiveLabel(o.Active),
		Club:        "No club assigned",
	}
	if club != nil {
		d.Club = club.Name
		d.ClubURL = "/clubs/" + club.ID
	}
	return d
}

// durationLabel rounds the booked span to whole hours.
func durationLabel(start, end time.Time) string {
	h := int(math.Round(end.Sub(start).Hours()))
	if h == 1 {
		return "1 hour"
	}
	return strconv.Itoa(h) + " hours"
}

func newBookingRow(b models.OfficeBooking, officeID string, members map[string]string) bookingRow {
	return bookingRow{
		ID:          b.ID,
		Member:      members[b.MemberID],
		Start:       format.DateTime(b.StartTime),
		End:         format.DateTime(b.EndTime),
		Duration:    durationLabel(b.StartTime, b.EndTime),
		Cost:        format.Money(b.TotalCost),
		Status:      b.Status,
		StatusClass: format.BookingStatusClass(b.Status),
		DeleteURL:   "/offices/" + officeID + "/bookings/" + b.ID + "/delete",
	}
}
