// internal/app/features/members/show.go
package members

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// ServeShow renders GET /members/{id}.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get member")
	defer cancel()

	m, err := auth.APIClient(r, h.API).Members().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load member", err, "/members")
		return
	}
	data := buildShow(m, h.now())
	data.BaseVM = viewdata.NewBaseVM(r, m.FullName(), "/members")
	templates.Render(w, r, "member_show", data)
}

func buildShow(m models.Member, now time.Time) showData {
	d := showData{
		ID:               m.ID,
		Name:             m.FullName(),
		Email:            m.Email,
		Phone:            m.Phone,
		Membership:       m.MembershipType,
		Status:           m.Status,
		StatusClass:      format.MemberStatusClass(m.Status),
		JoinDate:         format.Date(m.JoinDate),
		ExpiryDate:       format.Date(m.ExpiryDate),
		AutoRenewal:      "No",
		EmergencyContact: m.EmergencyContact,
		Notes:            htmlsanitize.PrepareForDisplay(m.Notes),
	}
	if m.AutoRenewal {
		d.AutoRenewal = "Yes"
	}
	if !m.ExpiryDate.IsZero() {
		switch days := format.DaysUntil(m.ExpiryDate, now); {
		case format.IsToday(m.ExpiryDate, now):
			d.ExpiryNote = "Expires today"
		case format.IsPast(m.ExpiryDate, now):
			d.ExpiryNote = "Expired"
		case days == 1:
			d.ExpiryNote = "Expires tomorrow"
		default:
			d.ExpiryNote = fmt.Sprintf("Expires in %d days", days)
		}
	}
	for _, b := range m.BillingHistory {
		d.Billing = append(d.Billing, billingRow{
			Date:        format.Date(b.Date),
			Amount:      format.Money(b.Amount),
			Description: b.Description,
			Status:      b.Status,
		})
	}
	return d
}
