// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Handler struct {
	API *apiclient.Client
	Log *zap.Logger
}

func NewHandler(api *apiclient.Client, logger *zap.Logger) *Handler {
	return &Handler{API: api, Log: logger}
}

// card is one collection summary on the dashboard. Error replaces the
// count when that collection failed to load.
type card struct {
	Title string
	URL   string
	Count int
	Error string
}

type dashboardData struct {
	viewdata.BaseVM
	Cards []card
}

// tally loads one collection through its own controller and reports the
// settled count, or the notification the controller raised.
type tally func(ctx context.Context, api *apiclient.Client, log *zap.Logger) (int, string, error)

func count[T any](kind listctl.Kind, src func(*apiclient.Client) listctl.Source[T], idOf func(T) string) tally {
	return func(ctx context.Context, api *apiclient.Client, log *zap.Logger) (int, string, error) {
		notes := &listctl.Collector{}
		ctl := listctl.New(kind, src(api), idOf, listctl.Never, notes, listctl.WithLogger(log))
		defer ctl.Dispose()
		if err := ctl.Load(ctx); err != nil {
			msg := "Failed to load " + kind.Plural
			if m := notes.Messages(); len(m) > 0 {
				msg = m[0]
			}
			return 0, msg, err
		}
		return ctl.SummaryCount(), "", nil
	}
}

type summary struct {
	section authz.Section
	title   string
	url     string
	load    tally
}

var summaries = []summary{
	{authz.SectionMembers, "Members", "/members",
		count(listctl.Members, func(c *apiclient.Client) listctl.Source[models.Member] { return c.Members() }, func(m models.Member) string { return m.ID })},
	{authz.SectionClasses, "Classes", "/classes",
		count(listctl.Classes, func(c *apiclient.Client) listctl.Source[models.Class] { return c.Classes() }, func(m models.Class) string { return m.ID })},
	{authz.SectionInstructors, "Instructors", "/instructors",
		count(listctl.Instructors, func(c *apiclient.Client) listctl.Source[models.Instructor] { return c.Instructors() }, func(m models.Instructor) string { return m.ID })},
	{authz.SectionClubs, "Clubs", "/clubs",
		count(listctl.Clubs, func(c *apiclient.Client) listctl.Source[models.Club] { return c.Clubs() }, func(m models.Club) string { return m.ID })},
}

// loadCards runs every visible summary at once. Each card settles on its
// own; unauthorized is true when the API rejected the session.
func (h *Handler) loadCards(ctx context.Context, api *apiclient.Client, visible func(authz.Section) bool) (cards []card, unauthorized bool) {
	var todo []summary
	for _, s := range summaries {
		if visible(s.section) {
			todo = append(todo, s)
		}
	}
	cards = make([]card, len(todo))
	errs := make([]error, len(todo))

	var g errgroup.Group
	for i, s := range todo {
		g.Go(func() error {
			n, msg, err := s.load(ctx, api, h.Log)
			cards[i] = card{Title: s.title, URL: s.url, Count: n, Error: msg}
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if apiclient.IsUnauthorized(err) {
			return cards, true
		}
	}
	return cards, false
}

// ServeDashboard renders GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard")
	defer cancel()

	cards, unauthorized := h.loadCards(ctx, auth.APIClient(r, h.API), func(s authz.Section) bool {
		return authz.CanAccess(r, s)
	})
	if unauthorized {
		auth.RedirectToLogin(w, r)
		return
	}

	templates.Render(w, r, "dashboard", dashboardData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/dashboard"),
		Cards:  cards,
	})
}
