// internal/app/features/clubs/show.go
package clubs

import (
	"context"
	"net/http"
	"slices"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// related holds what the club page shows besides the club itself. Each
// collection loads on its own; a failure leaves its error set.
type related struct {
	members     []models.Member
	instructors []models.Instructor
	restaurants []models.Restaurant
	offices     []models.Office

	membersErr, instructorsErr, restaurantsErr, officesErr error
}

func loadRelated(ctx context.Context, api *apiclient.Client, id string) related {
	var rel related
	var g errgroup.Group
	g.Go(func() error { rel.members, rel.membersErr = api.Members().List(ctx); return nil })
	g.Go(func() error { rel.instructors, rel.instructorsErr = api.Instructors().List(ctx); return nil })
	g.Go(func() error {
		rel.restaurants, rel.restaurantsErr = api.Restaurants().Where("club_id", id).List(ctx)
		return nil
	})
	g.Go(func() error {
		rel.offices, rel.officesErr = api.Offices().Where("club_id", id).List(ctx)
		return nil
	})
	_ = g.Wait()
	return rel
}

func (rel related) unauthorized() bool {
	for _, err := range []error{rel.membersErr, rel.instructorsErr, rel.restaurantsErr, rel.officesErr} {
		if apiclient.IsUnauthorized(err) {
			return true
		}
	}
	return false
}

// ServeShow renders GET /clubs/{id}.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	api := auth.APIClient(r, h.API)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "club detail")
	defer cancel()

	club, err := api.Clubs().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load club", err, "/clubs")
		return
	}
	rel := loadRelated(ctx, api, id)
	if rel.unauthorized() {
		auth.RedirectToLogin(w, r)
		return
	}
	for _, err := range []error{rel.membersErr, rel.instructorsErr, rel.restaurantsErr, rel.officesErr} {
		if err != nil {
			h.Log.Warn("club detail section failed", zap.String("club_id", id), zap.Error(err))
		}
	}

	data := buildShow(club, rel)
	data.BaseVM = viewdata.NewBaseVM(r, club.Name, "/clubs")
	templates.Render(w, r, "club_show", data)
}

func buildShow(c models.Club, rel related) showData {
	d := showData{
		ID:          c.ID,
		Name:        c.Name,
		Address:     c.Address,
		Location:    location(c),
		Phone:       c.Phone,
		Email:       c.Email,
		ActiveLabel: format.ActiveLabel(c.Active),
	}

	members := section{Title: "Members", Empty: "No members assigned to this club"}
	if rel.membersErr != nil {
		members.Error = apiclient.Message(rel.membersErr)
	}
	for _, m := range rel.members {
		if slices.Contains(m.ClubIDs, c.ID) {
			members.Links = append(members.Links, link{URL: "/members/" + m.ID, Label: m.FullName(), Detail: m.MembershipType})
		}
	}

	instructors := section{Title: "Instructors", Empty: "No instructors assigned to this club"}
	if rel.instructorsErr != nil {
		instructors.Error = apiclient.Message(rel.instructorsErr)
	}
	for _, in := range rel.instructors {
		if slices.Contains(in.ClubIDs, c.ID) {
			instructors.Links = append(instructors.Links, link{URL: "/instructors/" + in.ID, Label: in.Name, Detail: in.Specialty})
		}
	}

	restaurants := section{Title: "Restaurants", Empty: "No restaurants at this club"}
	if rel.restaurantsErr != nil {
		restaurants.Error = apiclient.Message(rel.restaurantsErr)
	}
	for _, rs := range rel.restaurants {
		restaurants.Links = append(restaurants.Links, link{URL: "/restaurants/" + rs.ID, Label: rs.Name, Detail: rs.Cuisine})
	}

	offices := section{Title: "Offices", Empty: "No offices at this club"}
	if rel.officesErr != nil {
		offices.Error = apiclient.Message(rel.officesErr)
	}
	for _, o := range rel.offices {
		offices.Links = append(offices.Links, link{URL: "/offices/" + o.ID, Label: o.Name, Detail: o.Type})
	}

	d.Sections = []section{members, instructors, restaurants, offices}
	return d
}
