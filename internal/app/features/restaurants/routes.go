// internal/app/features/restaurants/routes.go
package restaurants

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.RolesFor(authz.SectionRestaurants)...))

	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeShow)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)
	r.Get("/{id}/delete", h.del.ServeConfirm)
	r.Post("/{id}/delete", h.del.HandleDelete)

	r.Get("/{id}/reservations", h.ServeReservations)
	r.Get("/{id}/reservations/new", h.ServeNewReservation)
	r.Post("/{id}/reservations", h.HandleCreateReservation)
	r.Get("/{id}/reservations/{resID}/delete", h.ServeReservationConfirm)
	r.Post("/{id}/reservations/{resID}/delete", h.HandleReservationDelete)
	return r
}
