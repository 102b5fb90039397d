// internal/app/features/classes/form.go
package classes

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// classInput is the class form as posted.
type classInput struct {
	Name           string `validate:"required,max=200" label:"Class name"`
	Description    string `validate:"max=5000" label:"Description"`
	Instructor     string `validate:"required,max=200" label:"Instructor"`
	Date           string `validate:"required,isodate" label:"Date"`
	StartTime      string `validate:"required,clock" label:"Start time"`
	EndTime        string `validate:"required,clock" label:"End time"`
	Duration       int    `validate:"gte=1,lte=600" label:"Duration"`
	Capacity       int    `validate:"gte=1,lte=1000" label:"Capacity"`
	Status         string `validate:"required,oneof=scheduled in-progress completed cancelled" label:"Status"`
	Recurring      bool
	RecurringDays  []string `validate:"dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday" label:"Recurring days"`
	RecurringWeeks int      `validate:"gte=0,lte=52" label:"Weeks"`
}

// defaultInput mirrors the blank form: today, one hour at 09:00.
func defaultInput(now time.Time) classInput {
	return classInput{
		Date:           format.InputValue(now),
		StartTime:      "09:00",
		EndTime:        "10:00",
		Duration:       60,
		Capacity:       20,
		Status:         models.ClassScheduled,
		RecurringWeeks: 1,
	}
}

func parseInput(r *http.Request) classInput {
	get := func(k string) string { return strings.TrimSpace(r.PostFormValue(k)) }
	num := func(k string) int {
		n, err := strconv.Atoi(get(k))
		if err != nil {
			return 0
		}
		return n
	}
	return classInput{
		Name:           get("name"),
		Description:    htmlsanitize.Sanitize(get("description")),
		Instructor:     get("instructor"),
		Date:           get("date"),
		StartTime:      get("start_time"),
		EndTime:        get("end_time"),
		Duration:       num("duration"),
		Capacity:       num("capacity"),
		Status:         get("status"),
		Recurring:      r.PostFormValue("recurring") == "on",
		RecurringDays:  selectedIDs(r.PostForm["recurring_days"]),
		RecurringWeeks: num("recurring_weeks"),
	}
}

func inputFrom(c models.Class) classInput {
	return classInput{
		Name:          c.Name,
		Description:   c.Description,
		Instructor:    c.Instructor,
		Date:          format.InputValue(c.Date),
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		Duration:      c.Duration,
		Capacity:      c.Capacity,
		Status:        c.Status,
		Recurring:     c.Recurring,
		RecurringDays: c.RecurringDays,
	}
}

// apply checks the input and, when it passes, copies it onto c. The end
// time must follow the start time.
func (in classInput) apply(c *models.Class) error {
	if err := inputval.Validate(in).Err(); err != nil {
		return err
	}
	if in.EndTime <= in.StartTime {
		return apiclient.Invalid("End time", "End time must be after the start time.")
	}
	date, _ := format.ParseInputDate(in.Date)
	c.Name = in.Name
	c.Description = in.Description
	c.Instructor = in.Instructor
	c.Date = date
	c.StartTime = in.StartTime
	c.EndTime = in.EndTime
	c.Duration = in.Duration
	c.Capacity = in.Capacity
	c.Status = in.Status
	c.Recurring = in.Recurring && len(in.RecurringDays) > 0
	c.RecurringDays = nil
	if c.Recurring {
		c.RecurringDays = append([]string(nil), in.RecurringDays...)
	}
	return nil
}

var weekdayByName = map[string]time.Weekday{
	"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
	"Wednesday": time.Wednesday, "Thursday": time.Thursday,
	"Friday": time.Friday, "Saturday": time.Saturday,
}

// recurringDates expands a recurring class into one date per chosen
// weekday per week. Week 0 uses the first occurrence strictly after base;
// each later week adds seven days. The result is sorted.
func recurringDates(base time.Time, days []string, weeks int) []time.Time {
	var out []time.Time
	for week := 0; week < weeks; week++ {
		for _, name := range days {
			wd, ok := weekdayByName[name]
			if !ok {
				continue
			}
			add := int(wd) - int(base.Weekday())
			if add <= 0 {
				add += 7
			}
			out = append(out, base.AddDate(0, 0, add+week*7))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// instructorOptions lists active instructors by name. The current value is
// kept even when it no longer matches one.
func (h *Handler) instructorOptions(ctx context.Context, r *http.Request, current string) []option {
	list, err := auth.APIClient(r, h.API).Instructors().List(ctx)
	if err != nil {
		h.Log.Warn("instructors for class form", zap.Error(err))
		return nil
	}
	var out []option
	found := false
	for _, in := range list {
		if !in.Active && in.Name != current {
			continue
		}
		found = found || in.Name == current
		out = append(out, option{Value: in.Name, Label: in.Name})
	}
	if current != "" && !found {
		out = append(out, option{Value: current, Label: current})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, in classInput, id string, errMsg string) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "class form options")
	defer cancel()

	data := formData{
		Input:       in,
		IsEdit:      id != "",
		Statuses:    Statuses,
		Instructors: h.instructorOptions(ctx, r, in.Instructor),
	}
	chosen := map[string]bool{}
	for _, d := range in.RecurringDays {
		chosen[d] = true
	}
	for _, d := range WeekDays {
		data.WeekDays = append(data.WeekDays, dayOption{Name: d, Checked: chosen[d]})
	}
	if id == "" {
		formutil.SetBase(&data.Base, r, "Add Class", "/classes")
		data.ActionURL = "/classes"
		data.CancelURL = "/classes"
	} else {
		formutil.SetBase(&data.Base, r, "Edit Class", "/classes/"+id)
		data.ActionURL = "/classes/" + id + "/edit"
		data.CancelURL = "/classes/" + id
	}
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "class_form", data)
}

// ServeNew renders GET /classes/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, defaultInput(h.now()), "", "")
}

// HandleCreate handles POST /classes. A recurring class with at least one
// weekday and week creates one class per generated date.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse class form", err, "Invalid form submission.", "/classes")
		return
	}
	in := parseInput(r)
	var c models.Class
	if err := in.apply(&c); err != nil {
		h.renderForm(w, r, in, "", apiclient.Message(err))
		return
	}

	dates := []time.Time{c.Date}
	if c.Recurring && in.RecurringWeeks > 0 {
		dates = recurringDates(c.Date, c.RecurringDays, in.RecurringWeeks)
	}

	api := auth.APIClient(r, h.API).Classes()
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create class")
	defer cancel()

	var created []models.Class
	for _, d := range dates {
		inst := c
		inst.Date = d
		out, err := api.Create(ctx, inst)
		if err != nil {
			if apiclient.IsUnauthorized(err) {
				auth.RedirectToLogin(w, r)
				return
			}
			msg := "Failed to create class: " + apiclient.Message(err)
			if len(created) > 0 {
				msg += fmt.Sprintf(" (%d of %d created)", len(created), len(dates))
			}
			h.renderForm(w, r, in, "", msg)
			return
		}
		h.AuditLog.RecordCreated(r.Context(), r, "classes", out.ID, out.Name)
		created = append(created, out)
	}

	if len(created) == 1 {
		h.SM.AddFlash(w, r, auth.FlashSuccess, "Class created.")
		http.Redirect(w, r, "/classes/"+created[0].ID, http.StatusSeeOther)
		return
	}
	h.SM.AddFlash(w, r, auth.FlashSuccess, fmt.Sprintf("Created %d class instances.", len(created)))
	http.Redirect(w, r, "/classes", http.StatusSeeOther)
}

// ServeEdit renders GET /classes/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get class")
	defer cancel()
	c, err := auth.APIClient(r, h.API).Classes().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load class for edit", err, "/classes")
		return
	}
	h.renderForm(w, r, inputFrom(c), id, "")
}

// HandleEdit handles POST /classes/{id}/edit. Enrollment and wait list are
// read from the stored class and sent back unchanged.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse class form", err, "Invalid form submission.", "/classes/"+id)
		return
	}
	in := parseInput(r)
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderForm(w, r, in, id, res.First())
		return
	}

	api := auth.APIClient(r, h.API).Classes()
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update class")
	defer cancel()

	c, err := api.Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load class for update", err, "/classes")
		return
	}
	if err := in.apply(&c); err != nil {
		h.renderForm(w, r, in, id, apiclient.Message(err))
		return
	}
	if _, err := api.Update(ctx, id, c); err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, id, "Failed to update class: "+apiclient.Message(err))
		return
	}

	h.AuditLog.RecordUpdated(r.Context(), r, "classes", id, c.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Class updated.")
	http.Redirect(w, r, "/classes/"+id, http.StatusSeeOther)
}
