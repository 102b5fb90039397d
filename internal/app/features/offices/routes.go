// internal/app/features/offices/routes.go
package offices

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.RolesFor(authz.SectionOffices)...))

	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeShow)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)
	r.Get("/{id}/delete", h.del.ServeConfirm)
	r.Post("/{id}/delete", h.del.HandleDelete)

	r.Get("/{id}/bookings/new", h.ServeNewBooking)
	r.Post("/{id}/bookings", h.HandleCreateBooking)
	r.Get("/{id}/bookings/{bookingID}/delete", h.ServeBookingConfirm)
	r.Post("/{id}/bookings/{bookingID}/delete", h.HandleBookingDelete)
	return r
}
