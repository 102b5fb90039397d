// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const pageSize = 50

// filterForm is the parsed query string of GET /audit.
type filterForm struct {
	Category  string
	EventType string
	StartDate string
	EndDate   string
	Page      int
}

func parseFilter(r *http.Request) filterForm {
	q := r.URL.Query()
	f := filterForm{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
		Page:      1,
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		f.Page = p
	}
	// An event type outside the chosen category would match nothing.
	if f.EventType != "" && !slices.Contains(eventTypesForCategory(f.Category), f.EventType) {
		f.EventType = ""
	}
	return f
}

// query turns the form into a store filter. Dates are whole days in loc;
// unparseable dates are ignored.
func (f filterForm) query(loc *time.Location) audit.QueryFilter {
	qf := audit.QueryFilter{
		Category:  f.Category,
		EventType: f.EventType,
		Limit:     pageSize,
		Offset:    int64((f.Page - 1) * pageSize),
	}
	if t, err := time.ParseInLocation("2006-01-02", f.StartDate, loc); err == nil {
		qf.StartTime = &t
	}
	if t, err := time.ParseInLocation("2006-01-02", f.EndDate, loc); err == nil {
		endOfDay := t.Add(24*time.Hour - time.Second)
		qf.EndTime = &endOfDay
	}
	return qf
}

func newItem(e audit.Event) listItem {
	item := listItem{
		ID:        e.ID.Hex(),
		Timestamp: e.Timestamp,
		When:      format.DateTime(e.Timestamp),
		Category:  e.Category,
		EventType: e.EventType,
		Actor:     e.ActorEmail,
		IP:        e.IP,
		Success:   e.Success,
		Reason:    e.FailureReason,
		Details:   e.Details,
	}
	if item.Actor == "" {
		item.Actor = e.ActorID
	}
	switch {
	case e.Resource != "" && e.ResourceID != "":
		item.Target = e.Resource + "/" + e.ResourceID
	case e.Resource != "":
		item.Target = e.Resource
	case e.UserID != "":
		item.Target = e.UserID
	}
	return item
}

// pageURL returns the current list URL pointed at page p.
func pageURL(r *http.Request, p int) string {
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(p))
	return r.URL.Path + "?" + q.Encode()
}

// ServeList handles GET /audit - displays the audit log list with filtering.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	form := parseFilter(r)
	filter := form.query(time.Local)

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("failed to query audit events", zap.Error(err))
		h.ErrLog.LogServerError(w, r, "database error", err, "A database error occurred.", "/dashboard")
		return
	}
	total, err := h.Events.Count(ctx, filter)
	if err != nil {
		h.Log.Error("failed to count audit events", zap.Error(err))
		h.ErrLog.LogServerError(w, r, "database error", err, "A database error occurred.", "/dashboard")
		return
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, newItem(e))
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Audit Log", "/dashboard"),
		Items:      items,
		Category:   form.Category,
		EventType:  form.EventType,
		StartDate:  form.StartDate,
		EndDate:    form.EndDate,
		Categories: allCategories(),
		EventTypes: eventTypesForCategory(form.Category),
		Page:       form.Page,
		TotalPages: totalPages,
		Total:      total,
		Shown:      len(items),
		HasPrev:    form.Page > 1,
		HasNext:    form.Page < totalPages,
	}
	if data.HasPrev {
		data.PrevURL = pageURL(r, form.Page-1)
	}
	if data.HasNext {
		data.NextURL = pageURL(r, form.Page+1)
	}

	templates.Render(w, r, "audit_list", data)
}
