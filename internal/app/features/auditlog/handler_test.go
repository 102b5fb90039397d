package auditlog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEvents struct {
	events []audit.Event
	total  int64
	err    error
	got    []audit.QueryFilter
}

func (f *fakeEvents) Query(_ context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	f.got = append(f.got, filter)
	return f.events, f.err
}

func (f *fakeEvents) Count(_ context.Context, filter audit.QueryFilter) (int64, error) {
	return f.total, f.err
}

func newTestHandler(events EventStore) *Handler {
	logger := zap.NewNop()
	return NewHandler(events, uierrors.NewErrorLogger(logger), logger)
}

// serve runs ServeList; Render panics without a loaded engine.
func serve(h *Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	func() {
		defer func() { recover() }()
		h.ServeList(rec, req)
	}()
	return rec
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		category  string
		eventType string
		page      int
	}{
		{"defaults", "/audit", "", "", 1},
		{"category and event", "/audit?category=auth&event_type=login_failed", "auth", "login_failed", 1},
		{"event outside category dropped", "/audit?category=admin&event_type=login_failed", "admin", "", 1},
		{"unknown event dropped", "/audit?event_type=nope", "", "", 1},
		{"page", "/audit?page=3", "", "", 3},
		{"bad page", "/audit?page=-2", "", "", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := parseFilter(httptest.NewRequest(http.MethodGet, tc.target, nil))
			assert.Equal(t, tc.category, f.Category)
			assert.Equal(t, tc.eventType, f.EventType)
			assert.Equal(t, tc.page, f.Page)
		})
	}
}

func TestFilterQuery_DatesAndOffset(t *testing.T) {
	f := filterForm{StartDate: "2026-03-01", EndDate: "2026-03-02", Page: 2}
	q := f.query(time.UTC)

	assert.Equal(t, int64(pageSize), q.Limit)
	assert.Equal(t, int64(pageSize), q.Offset)
	require.NotNil(t, q.StartTime)
	require.NotNil(t, q.EndTime)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *q.StartTime)
	assert.Equal(t, time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC), *q.EndTime)
}

func TestFilterQuery_BadDatesIgnored(t *testing.T) {
	q := filterForm{StartDate: "yesterday", EndDate: "03/02/2026", Page: 1}.query(time.UTC)
	assert.Nil(t, q.StartTime)
	assert.Nil(t, q.EndTime)
	assert.Zero(t, q.Offset)
}

func TestNewItem_Target(t *testing.T) {
	record := newItem(audit.Event{Resource: "members", ResourceID: "m1", ActorID: "user:a"})
	assert.Equal(t, "members/m1", record.Target)
	assert.Equal(t, "user:a", record.Actor)

	login := newItem(audit.Event{UserID: "user:b", ActorEmail: "b@club.test"})
	assert.Equal(t, "user:b", login.Target)
	assert.Equal(t, "b@club.test", login.Actor)
}

func TestEventTypesForCategory(t *testing.T) {
	assert.Contains(t, eventTypesForCategory(audit.CategoryAuth), audit.EventLoginFailed)
	assert.NotContains(t, eventTypesForCategory(audit.CategoryAuth), audit.EventRecordDeleted)
	assert.Contains(t, eventTypesForCategory(audit.CategoryAdmin), audit.EventRecordDeleted)
	assert.Len(t, eventTypesForCategory(""), len(authEvents)+len(adminEvents))
	assert.Nil(t, eventTypesForCategory("billing"))
}

func TestServeList_PassesFilterToStore(t *testing.T) {
	events := &fakeEvents{total: 120}
	h := newTestHandler(events)

	serve(h, "/audit?category=auth&event_type=logout&page=2")

	require.Len(t, events.got, 1)
	assert.Equal(t, audit.CategoryAuth, events.got[0].Category)
	assert.Equal(t, audit.EventLogout, events.got[0].EventType)
	assert.Equal(t, int64(50), events.got[0].Offset)
}

func TestServeList_StoreErrorIs500(t *testing.T) {
	h := newTestHandler(&fakeEvents{err: errors.New("connection refused")})

	rec := serve(h, "/audit")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
