// internal/app/features/offices/list.go
package offices

import (
	"context"
	"net/http"
	"sort"
	"strconv"

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
	"go.uber.org/zap"
)

var listOptions = listpage.Options[models.Office]{
	Kind:  listctl.Offices,
	Title: "Offices",
	Fields: func(o models.Office) []string {
		return []string{o.Name, o.Description, typeLabel(o.Type)}
	},
	Sorts: map[string]listpage.Sort[models.Office]{
		"name":     listpage.ByText(func(o models.Office) string { return o.Name }),
		"type":     listpage.ByText(func(o models.Office) string { return typeLabel(o.Type) }),
		"capacity": listpage.ByInt(func(o models.Office) int { return o.Capacity }),
		"hourly":   listpage.ByFloat(func(o models.Office) float64 { return o.HourlyRate }),
		"active":   listpage.ByBool(func(o models.Office) bool { return !o.Active }),
	},
	DefaultSort: "name",
}

// ServeList renders GET /offices, optionally narrowed to one club by
// ?club_id=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	api := auth.APIClient(r, h.API)
	ctl, notes, ok := listpage.Open(w, r, listctl.Offices, api.Offices(), officeID, h.Log)
	if !ok {
		return
	}
	defer ctl.Dispose()

	clubs := h.clubs(r.Context(), api)
	names := make(map[string]string, len(clubs))
	for _, c := range clubs {
		names[c.ID] = c.Name
	}

	club := query.Get(r, "club_id")
	opt := listOptions
	if club != "" {
		opt.Keep = func(o models.Office) bool { return o.ClubID == club }
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Offices", "/dashboard"),
		List: listpage.Build(r, ctl.State(), notes.Messages(), opt, func(o models.Office) officeRow {
			return newRow(o, names)
		}),
		Clubs: clubFilter(clubs, club),
	}
	templates.Render(w, r, "offices_list", data)
}

// clubs loads every club for names and pickers. A failure is logged and
// gives nil.
func (h *Handler) clubs(ctx context.Context, api *apiclient.Client) []models.Club {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.Log, "clubs for offices")
	defer cancel()
	clubs, err := api.Clubs().List(ctx)
	if err != nil {
		h.Log.Warn("clubs for offices failed", zap.Error(err))
		return nil
	}
	return clubs
}

func clubFilter(clubs []models.Club, selected string) []option {
	out := []option{{Value: "", Label: "All clubs", Selected: selected == ""}}
	return append(out, clubOptions(clubs, selected)...)
}

func clubOptions(clubs []models.Club, selected string) []option {
	out := make([]option, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, option{Value: c.ID, Label: c.Name, Selected: c.ID == selected})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func typeLabel(t string) string {
	for _, o := range OfficeTypes {
		if o.Value == t {
			return o.Label
		}
	}
	return t
}

func capacityLabel(n int) string {
	if n == 1 {
		return "1 person"
	}
	return strconv.Itoa(n) + " people"
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

func newRow(o models.Office, clubs map[string]string) officeRow {
	return officeRow{
		ID:          o.ID,
		Name:        o.Name,
		Description: format.Truncate(o.Description, 80),
		Club:        clubLabel(o.ClubID, clubs),
		Type:        typeLabel(o.Type),
		Capacity:    capacityLabel(o.Capacity),
		HourlyRate:  format.Money(o.HourlyRate) + "/hr",
		DailyRate:   format.Money(o.DailyRate) + "/day",
		Active:      o.Active,
		ActiveLabel: format.ActiveLabel(o.Active),
	}
}
