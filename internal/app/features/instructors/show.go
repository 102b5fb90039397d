// internal/app/features/instructors/show.go
package instructors

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// recentLimit caps the upcoming and past class lists.
const recentLimit = 5

// ServeShow renders GET /instructors/{id} with the clubs the instructor
// is assigned to and the classes they teach.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	api := auth.APIClient(r, h.API)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "instructor detail")
	defer cancel()

	in, err := api.Instructors().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load instructor", err, "/instructors")
		return
	}

	var (
		clubs            []models.Club
		classes          []models.Class
		clubsErr, clsErr error
	)
	var g errgroup.Group
	g.Go(func() error { clubs, clubsErr = api.Clubs().List(ctx); return nil })
	g.Go(func() error { classes, clsErr = api.Classes().List(ctx); return nil })
	_ = g.Wait()

	data := buildShow(in, clubs, classes, h.now())
	for _, e := range []error{clubsErr, clsErr} {
		if e != nil {
			if apiclient.IsUnauthorized(e) {
				auth.RedirectToLogin(w, r)
				return
			}
			h.Log.Warn("instructor detail section failed", zap.String("instructor_id", id), zap.Error(e))
			data.Notices = append(data.Notices, apiclient.Message(e))
		}
	}
	data.BaseVM = viewdata.NewBaseVM(r, in.Name, "/instructors")
	templates.Render(w, r, "instructor_show", data)
}

func buildShow(in models.Instructor, clubs []models.Club, classes []models.Class, now time.Time) showData {
	d := showData{
		ID:          in.ID,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Specialty:   in.Specialty,
		Bio:         htmlsanitize.PrepareForDisplay(in.Bio),
		ActiveLabel: format.ActiveLabel(in.Active),
	}

	assigned := make(map[string]bool, len(in.ClubIDs))
	for _, cid := range in.ClubIDs {
		assigned[cid] = true
	}
	for _, c := range clubs {
		if assigned[c.ID] {
			d.Clubs = append(d.Clubs, clubLink{ID: c.ID, Name: c.Name, Location: location(c)})
		}
	}

	var upcoming, past []models.Class
	for _, c := range classes {
		if c.Instructor != in.Name {
			continue
		}
		d.ClassCount++
		if format.IsPast(c.Date, startOfDay(now)) {
			past = append(past, c)
		} else {
			upcoming = append(upcoming, c)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	sort.SliceStable(past, func(i, j int) bool { return past[i].Date.After(past[j].Date) })
	d.Upcoming = classLinks(upcoming)
	d.Past = classLinks(past)
	return d
}

func startOfDay(t time.Time) time.Time {
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, t.Location())
}

func classLinks(cs []models.Class) []classLink {
	if len(cs) > recentLimit {
		cs = cs[:recentLimit]
	}
	out := make([]classLink, len(cs))
	for i, c := range cs {
		out[i] = classLink{ID: c.ID, Name: c.Name, Date: format.Date(c.Date), Time: format.Clock(c.StartTime)}
	}
	return out
}

func location(c models.Club) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{c.City, c.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
