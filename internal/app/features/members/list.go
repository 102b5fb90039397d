// internal/app/features/members/list.go
package members

import (
	"net/http"
	"time"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

var listOptions = listpage.Options[models.Member]{
	Kind:  listctl.Members,
	Title: "Members",
	Fields: func(m models.Member) []string {
		return []string{m.FirstName, m.LastName, m.Email, m.Phone, m.MembershipType, m.Status}
	},
	Sorts: map[string]listpage.Sort[models.Member]{
		"name":       listpage.ByText(models.Member.FullName),
		"email":      listpage.ByText(func(m models.Member) string { return m.Email }),
		"phone":      listpage.ByText(func(m models.Member) string { return m.Phone }),
		"membership": listpage.ByText(func(m models.Member) string { return m.MembershipType }),
		"status":     listpage.ByText(func(m models.Member) string { return m.Status }),
		"joined":     listpage.ByTime(func(m models.Member) time.Time { return m.JoinDate }),
		"expiry":     listpage.ByTime(func(m models.Member) time.Time { return m.ExpiryDate }),
	},
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*listctl.Controller[models.Member], *listctl.Collector, bool) {
	return listpage.Open(w, r, listctl.Members, auth.APIClient(r, h.API).Members(), memberID, h.Log)
}

// ServeList renders GET /members.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctl, notes, ok := h.load(w, r)
	if !ok {
		return
	}
	defer ctl.Dispose()

	now := h.now()
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Members", "/dashboard"),
		List: listpage.Build(r, ctl.State(), notes.Messages(), listOptions, func(m models.Member) memberRow {
			return newRow(m, now)
		}),
	}
	data.ExportURL = "/members/export"
	if raw := r.URL.RawQuery; raw != "" {
		data.ExportURL += "?" + raw
	}
	templates.Render(w, r, "members_list", data)
}

func newRow(m models.Member, now time.Time) memberRow {
	return memberRow{
		ID:          m.ID,
		Name:        m.FullName(),
		Email:       m.Email,
		Phone:       m.Phone,
		Membership:  m.MembershipType,
		Status:      m.Status,
		StatusClass: format.MemberStatusClass(m.Status),
		JoinDate:    format.Date(m.JoinDate),
		ExpiryDate:  format.Date(m.ExpiryDate),
		Expired:     !m.ExpiryDate.IsZero() && format.IsPast(m.ExpiryDate, now),
	}
}
