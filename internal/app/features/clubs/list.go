// internal/app/features/clubs/list.go
package clubs

import (
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

var listOptions = listpage.Options[models.Club]{
	Kind:  listctl.Clubs,
	Title: "Clubs",
	Fields: func(c models.Club) []string {
		return []string{c.Name, c.City, c.State}
	},
	Sorts: map[string]listpage.Sort[models.Club]{
		"name":   listpage.ByText(func(c models.Club) string { return c.Name }),
		"city":   listpage.ByText(func(c models.Club) string { return c.City }),
		"state":  listpage.ByText(func(c models.Club) string { return c.State }),
		"active": listpage.ByBool(func(c models.Club) bool { return !c.Active }),
	},
	DefaultSort: "name",
}

// ServeList renders GET /clubs.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctl, notes, ok := listpage.Open(w, r, listctl.Clubs, auth.APIClient(r, h.API).Clubs(), clubID, h.Log)
	if !ok {
		return
	}
	defer ctl.Dispose()

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Clubs", "/dashboard"),
		List:   listpage.Build(r, ctl.State(), notes.Messages(), listOptions, newRow),
	}
	templates.Render(w, r, "clubs_list", data)
}

func newRow(c models.Club) clubRow {
	return clubRow{
		ID:          c.ID,
		Name:        c.Name,
		Address:     c.Address,
		Location:    location(c),
		Phone:       c.Phone,
		Email:       c.Email,
		Active:      c.Active,
		ActiveLabel: format.ActiveLabel(c.Active),
	}
}

// location renders "City, ST 12345", skipping blank parts.
func location(c models.Club) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(c.City))
	if st := strings.TrimSpace(c.State); st != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(st)
	}
	if zip := strings.TrimSpace(c.ZipCode); zip != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(zip)
	}
	return b.String()
}
