// internal/app/features/classes/list.go
package classes

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

var listOptions = listpage.Options[models.Class]{
	Kind:  listctl.Classes,
	Title: "Classes",
	Fields: func(c models.Class) []string {
		return []string{c.Name, c.Instructor, c.Status}
	},
	Sorts: map[string]listpage.Sort[models.Class]{
		"name":       listpage.ByText(func(c models.Class) string { return c.Name }),
		"instructor": listpage.ByText(func(c models.Class) string { return c.Instructor }),
		"date":       listpage.ByTime(func(c models.Class) time.Time { return c.Date }),
		"status":     listpage.ByText(func(c models.Class) string { return c.Status }),
	},
	DefaultSort: "date",
}

// filters are the exact-match selects above the class table.
type filters struct {
	Instructor string
	Date       string // YYYY-MM-DD
	Duration   string // minutes
}

func parseFilters(r *http.Request) filters {
	return filters{
		Instructor: strings.TrimSpace(query.Get(r, "instructor")),
		Date:       strings.TrimSpace(query.Get(r, "date")),
		Duration:   strings.TrimSpace(query.Get(r, "duration")),
	}
}

func (f filters) active() bool {
	return f.Instructor != "" || f.Date != "" || f.Duration != ""
}

func (f filters) keep(c models.Class) bool {
	if f.Instructor != "" && c.Instructor != f.Instructor {
		return false
	}
	if f.Date != "" && format.InputValue(c.Date) != f.Date {
		return false
	}
	if f.Duration != "" && strconv.Itoa(c.Duration) != f.Duration {
		return false
	}
	return true
}

// optionsFor lists the distinct instructors, dates and durations of the
// loaded classes, each sorted.
func optionsFor(classes []models.Class) filterOptions {
	var out filterOptions
	seenI := map[string]bool{}
	seenD := map[string]time.Time{}
	seenM := map[int]bool{}
	for _, c := range classes {
		if c.Instructor != "" && !seenI[c.Instructor] {
			seenI[c.Instructor] = true
			out.Instructors = append(out.Instructors, option{c.Instructor, c.Instructor})
		}
		if !c.Date.IsZero() {
			seenD[format.InputValue(c.Date)] = c.Date
		}
		if c.Duration > 0 {
			seenM[c.Duration] = true
		}
	}
	sort.Slice(out.Instructors, func(i, j int) bool { return out.Instructors[i].Value < out.Instructors[j].Value })

	dates := make([]string, 0, len(seenD))
	for d := range seenD {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		out.Dates = append(out.Dates, option{d, format.Date(seenD[d])})
	}

	mins := make([]int, 0, len(seenM))
	for m := range seenM {
		mins = append(mins, m)
	}
	sort.Ints(mins)
	for _, m := range mins {
		out.Durations = append(out.Durations, option{strconv.Itoa(m), strconv.Itoa(m) + " min"})
	}
	return out
}

// availabilityOf reports enrolled/capacity. A class at 75% or more is
// filling and at 100% or more is full.
func availabilityOf(c models.Class) availability {
	a := availability{Enrolled: len(c.EnrolledMembers), Capacity: c.Capacity, Level: LevelOK}
	switch {
	case a.Capacity <= 0:
		if a.Enrolled > 0 {
			a.Level = LevelFull
		}
	case a.Enrolled >= a.Capacity:
		a.Level = LevelFull
	case a.Enrolled*4 >= a.Capacity*3:
		a.Level = LevelFilling
	}
	return a
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*listctl.Controller[models.Class], *listctl.Collector, bool) {
	return listpage.Open(w, r, listctl.Classes, auth.APIClient(r, h.API).Classes(), classID, h.Log)
}

// ServeList renders GET /classes.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctl, notes, ok := h.load(w, r)
	if !ok {
		return
	}
	defer ctl.Dispose()

	f := parseFilters(r)
	opt := listOptions
	opt.Keep = f.keep

	st := ctl.State()
	data := listData{
		BaseVM:    viewdata.NewBaseVM(r, "Classes", "/dashboard"),
		List:      listpage.Build(r, st, notes.Messages(), opt, newRow),
		Filter:    f,
		Options:   optionsFor(st.Items),
		ShowClear: f.active() || query.Get(r, "q") != "",
	}
	templates.Render(w, r, "classes_list", data)
}

func newRow(c models.Class) classRow {
	return classRow{
		ID:          c.ID,
		Name:        c.Name,
		Instructor:  c.Instructor,
		Date:        format.Date(c.Date),
		Time:        timeRange(c),
		Duration:    durationLabel(c.Duration),
		Avail:       availabilityOf(c),
		Status:      c.Status,
		StatusClass: format.ClassStatusClass(c.Status),
	}
}

func timeRange(c models.Class) string {
	switch {
	case c.StartTime == "":
		return ""
	case c.EndTime == "":
		return format.Clock(c.StartTime)
	}
	return format.Clock(c.StartTime) + " - " + format.Clock(c.EndTime)
}

func durationLabel(min int) string {
	if min <= 0 {
		return ""
	}
	return strconv.Itoa(min) + " min"
}
