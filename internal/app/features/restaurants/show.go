// internal/app/features/restaurants/show.go
package restaurants

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeShow renders GET /restaurants/{id}.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	api := auth.APIClient(r, h.API)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "restaurant detail")
	defer cancel()

	rs, err := api.Restaurants().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load restaurant", err, "/restaurants")
		return
	}

	var club *models.Club
	if rs.ClubID != "" {
		c, err := api.Clubs().Get(ctx, rs.ClubID)
		switch {
		case err == nil:
			club = &c
		case apiclient.IsUnauthorized(err):
			auth.RedirectToLogin(w, r)
			return
		default:
			h.Log.Warn("club for restaurant failed", zap.String("restaurant_id", id), zap.Error(err))
		}
	}

	data := buildShow(rs, club)
	data.BaseVM = viewdata.NewBaseVM(r, rs.Name, "/restaurants")
	templates.Render(w, r, "restaurant_show", data)
}

func buildShow(rs models.Restaurant, club *models.Club) showData {
	d := showData{
		ID:          rs.ID,
		Name:        rs.Name,
		Description: rs.Description,
		Cuisine:     rs.Cuisine,
		Phone:       rs.Phone,
		Email:       rs.Email,
		Capacity:    strconv.Itoa(rs.Capacity) + " seats",
		Opening:     format.Clock(rs.OpeningTime),
		Closing:     format.Clock(rs.ClosingTime),
		ActiveLabel: format.ActiveLabel(rs.Active),
		Club:        "No club assigned",
	}
	if d.Description == "" {
		d.Description = "N/A"
	}
	if club != nil {
		d.Club = club.Name + " - " + club.City + ", " + club.State
		d.ClubURL = "/clubs/" + club.ID
	}
	return d
}
