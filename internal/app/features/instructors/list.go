// internal/app/features/instructors/list.go
package instructors

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

var listOptions = listpage.Options[models.Instructor]{
	Kind:  listctl.Instructors,
	Title: "Instructors",
	Fields: func(in models.Instructor) []string {
		return []string{in.Name, in.Email, in.Specialty}
	},
	Sorts: map[string]listpage.Sort[models.Instructor]{
		"name":      listpage.ByText(func(in models.Instructor) string { return in.Name }),
		"email":     listpage.ByText(func(in models.Instructor) string { return in.Email }),
		"specialty": listpage.ByText(func(in models.Instructor) string { return in.Specialty }),
		"active":    listpage.ByBool(func(in models.Instructor) bool { return !in.Active }),
	},
	DefaultSort: "name",
}

// ServeList renders GET /instructors.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctl, notes, ok := listpage.Open(w, r, listctl.Instructors, auth.APIClient(r, h.API).Instructors(), instructorID, h.Log)
	if !ok {
		return
	}
	defer ctl.Dispose()

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Instructors", "/dashboard"),
		List:   listpage.Build(r, ctl.State(), notes.Messages(), listOptions, newRow),
	}
	templates.Render(w, r, "instructors_list", data)
}

func newRow(in models.Instructor) instructorRow {
	return instructorRow{
		ID:          in.ID,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Specialty:   in.Specialty,
		Active:      in.Active,
		ActiveLabel: format.ActiveLabel(in.Active),
	}
}
