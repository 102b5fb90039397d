// internal/app/features/classes/routes.go
package classes

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the class pages. Typically: r.Mount("/classes", classes.Routes(h, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.RolesFor(authz.SectionClasses)...))

	r.Get("/", h.ServeList)
	r.Get("/delete", h.ServeBulkConfirm)
	r.Post("/delete", h.HandleBulkDelete)

	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.ServeShow)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)
	r.Get("/{id}/delete", h.del.ServeConfirm)
	r.Post("/{id}/delete", h.del.HandleDelete)

	r.Post("/{id}/enroll", h.HandleEnroll)
	r.Get("/{id}/unenroll/{memberID}", h.ServeUnenrollConfirm)
	r.Post("/{id}/unenroll/{memberID}", h.HandleUnenroll)

	return r
}
