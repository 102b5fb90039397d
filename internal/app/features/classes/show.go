// internal/app/features/classes/show.go
package classes

import (
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/search"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ServeShow renders GET /classes/{id}: the class, its enrolled members,
// its wait list and the members who could still be enrolled.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	api := auth.APIClient(r, h.API)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "class detail")
	defer cancel()

	var (
		detail     models.ClassWithMembers
		members    []models.Member
		membersErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = api.ClassDetails(gctx, id)
		return err
	})
	g.Go(func() error {
		// A failed member list only hides the enroll picker.
		members, membersErr = api.Members().List(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.ErrLog.LogAPIError(w, r, "load class", err, "/classes")
		return
	}
	if membersErr != nil {
		h.Log.Warn("member list for enroll picker failed", zap.String("class_id", id), zap.Error(membersErr))
	}

	data := buildShow(detail, members, membersErr == nil, query.Get(r, "member_q"))
	data.BaseVM = viewdata.NewBaseVM(r, detail.Name, "/classes")
	templates.Render(w, r, "class_show", data)
}

func buildShow(c models.ClassWithMembers, all []models.Member, membersLoaded bool, memberQuery string) showData {
	d := showData{
		ID:          c.ID,
		Name:        c.Name,
		Instructor:  c.Instructor,
		Date:        format.Date(c.Date),
		Time:        timeRange(c.Class),
		Duration:    durationLabel(c.Duration),
		Status:      c.Status,
		StatusClass: format.ClassStatusClass(c.Status),
		Description: htmlsanitize.PrepareForDisplay(c.Description),
		Avail:       availabilityOf(c.Class),
		EnrollURL:   "/classes/" + c.ID + "/enroll",
	}
	// The resolved lists are authoritative when present.
	if c.EnrolledMembersDetails != nil {
		d.Avail.Enrolled = len(c.EnrolledMembersDetails)
	}
	if d.OpenSpots = c.Capacity - d.Avail.Enrolled; d.OpenSpots < 0 {
		d.OpenSpots = 0
	}
	if c.Recurring && len(c.RecurringDays) > 0 {
		d.Recurring = strings.Join(c.RecurringDays, ", ")
	}
	for _, m := range c.EnrolledMembersDetails {
		d.Enrolled = append(d.Enrolled, rosterRow(c.ID, m))
	}
	for _, m := range c.WaitListDetails {
		d.WaitList = append(d.WaitList, rosterRow(c.ID, m))
	}

	if !membersLoaded {
		d.CandidateNote = "Members could not be loaded."
		return d
	}
	d.Candidates = candidates(c, all, memberQuery)
	if len(d.Candidates) == 0 {
		if memberQuery != "" {
			d.CandidateNote = "No members found matching your search"
		} else {
			d.CandidateNote = "All members are already enrolled or on the wait list"
		}
	}
	return d
}

func rosterRow(classID string, m models.Member) memberRow {
	return memberRow{
		ID:          m.ID,
		Name:        m.FullName(),
		Email:       m.Email,
		Membership:  m.MembershipType,
		UnenrollURL: "/classes/" + classID + "/unenroll/" + m.ID,
	}
}

// candidates are members neither enrolled nor waiting, optionally
// narrowed by name or email, sorted by name.
func candidates(c models.ClassWithMembers, all []models.Member, q string) []option {
	taken := make(map[string]bool, len(c.EnrolledMembers)+len(c.WaitList))
	for _, id := range c.EnrolledMembers {
		taken[id] = true
	}
	for _, id := range c.WaitList {
		taken[id] = true
	}
	free := make([]models.Member, 0, len(all))
	for _, m := range all {
		if m.ID != "" && !taken[m.ID] {
			free = append(free, m)
		}
	}
	free = search.Filter(free, q, func(m models.Member) []string {
		return []string{m.FirstName, m.LastName, m.Email}
	})
	sort.SliceStable(free, func(i, j int) bool { return free[i].FullName() < free[j].FullName() })

	out := make([]option, len(free))
	for i, m := range free {
		out[i] = option{Value: m.ID, Label: m.FullName() + " (" + m.Email + ")"}
	}
	return out
}
