// internal/app/features/restaurants/list.go
package restaurants

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

var listOptions = listpage.Options[models.Restaurant]{
	Kind:  listctl.Restaurants,
	Title: "Restaurants",
	Fields: func(r models.Restaurant) []string {
		return []string{r.Name, r.Description, r.Cuisine}
	},
	Sorts: map[string]listpage.Sort[models.Restaurant]{
		"name":     listpage.ByText(func(r models.Restaurant) string { return r.Name }),
		"cuisine":  listpage.ByText(func(r models.Restaurant) string { return r.Cuisine }),
		"capacity": listpage.ByInt(func(r models.Restaurant) int { return r.Capacity }),
		"opening":  listpage.ByText(func(r models.Restaurant) string { return r.OpeningTime }),
		"active":   listpage.ByBool(func(r models.Restaurant) bool { return !r.Active }),
	},
	DefaultSort: "name",
}

// ServeList renders GET /restaurants.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	api := auth.APIClient(r, h.API)
	ctl, notes, ok := listpage.Open(w, r, listctl.Restaurants, api.Restaurants(), restaurantID, h.Log)
	if !ok {
		return
	}
	defer ctl.Dispose()

	names := h.clubNames(r.Context(), api)
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Restaurants", "/dashboard"),
		List: listpage.Build(r, ctl.State(), notes.Messages(), listOptions, func(rs models.Restaurant) restaurantRow {
			return newRow(rs, names)
		}),
	}
	templates.Render(w, r, "restaurants_list", data)
}

// clubNames maps club id to name. A failed load gives nil and every row
// shows its club as unknown.
func (h *Handler) clubNames(ctx context.Context, api *apiclient.Client) map[string]string {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.Log, "club names")
	defer cancel()
	clubs, err := api.Clubs().List(ctx)
	if err != nil {
		h.Log.Warn("club names for restaurants failed", zap.Error(err))
		return nil
	}
	names := make(map[string]string, len(clubs))
	for _, c := range clubs {
		names[c.ID] = c.Name
	}
	return names
}

func clubLabel(clubID string, names map[string]string) string {
	if clubID == "" {
		return "No Club"
	}
	if n, ok := names[clubID]; ok {
		return n
	}
	return "Unknown Club"
}

func newRow(rs models.Restaurant, clubs map[string]string) restaurantRow {
	return restaurantRow{
		ID:          rs.ID,
		Name:        rs.Name,
		Description: format.Truncate(rs.Description, 80),
		Club:        clubLabel(rs.ClubID, clubs),
		Cuisine:     rs.Cuisine,
		Capacity:    strconv.Itoa(rs.Capacity) + " seats",
		Hours:       hours(rs),
		Active:      rs.Active,
		ActiveLabel: format.ActiveLabel(rs.Active),
	}
}

// hours renders "11:00 AM - 10:00 PM".
func hours(rs models.Restaurant) string {
	if rs.OpeningTime == "" && rs.ClosingTime == "" {
		return ""
	}
	return format.Clock(rs.OpeningTime) + " - " + format.Clock(rs.ClosingTime)
}
