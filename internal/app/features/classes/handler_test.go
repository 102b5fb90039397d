package classes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, api *testutil.FakeAPI) *Handler {
	t.Helper()
	h := NewHandler(api.Client(t), testutil.NewSessionManager(t), uierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop())
	h.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return h
}

func messages(fs []auth.Flash) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Message
	}
	return out
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAvailabilityOf(t *testing.T) {
	enrolled := func(n int) []string { return make([]string, n) }
	tests := []struct {
		enrolled, capacity int
		want               string
	}{
		{0, 20, LevelOK},
		{14, 20, LevelOK},
		{15, 20, LevelFilling},
		{19, 20, LevelFilling},
		{20, 20, LevelFull},
		{22, 20, LevelFull},
		{0, 0, LevelOK},
		{1, 0, LevelFull},
	}
	for _, tc := range tests {
		a := availabilityOf(models.Class{EnrolledMembers: enrolled(tc.enrolled), Capacity: tc.capacity})
		assert.Equal(t, tc.want, a.Level, "%d/%d", tc.enrolled, tc.capacity)
		assert.Equal(t, tc.enrolled, a.Enrolled)
	}
}

func TestFilters_Keep(t *testing.T) {
	c := models.Class{Instructor: "Sam", Date: day("2025-03-12"), Duration: 45}

	assert.True(t, filters{}.keep(c))
	assert.True(t, filters{Instructor: "Sam", Date: "2025-03-12", Duration: "45"}.keep(c))
	assert.False(t, filters{Instructor: "sam"}.keep(c))
	assert.False(t, filters{Date: "2025-03-13"}.keep(c))
	assert.False(t, filters{Duration: "60"}.keep(c))
}

func TestOptionsFor_DistinctAndSorted(t *testing.T) {
	opts := optionsFor([]models.Class{
		{Instructor: "Zoe", Date: day("2025-03-14"), Duration: 60},
		{Instructor: "Ann", Date: day("2025-03-12"), Duration: 45},
		{Instructor: "Zoe", Date: day("2025-03-12"), Duration: 60},
		{Duration: 0},
	})

	require.Len(t, opts.Instructors, 2)
	assert.Equal(t, "Ann", opts.Instructors[0].Value)
	require.Len(t, opts.Dates, 2)
	assert.Equal(t, "2025-03-12", opts.Dates[0].Value)
	assert.Equal(t, "Wed, Mar 12, 2025", opts.Dates[0].Label)
	require.Len(t, opts.Durations, 2)
	assert.Equal(t, "45 min", opts.Durations[0].Label)
}

func TestRecurringDates(t *testing.T) {
	// 2025-03-10 is a Monday; the same weekday moves a full week ahead.
	got := recurringDates(day("2025-03-10"), []string{"Monday", "Wednesday"}, 2)

	want := []string{"2025-03-12", "2025-03-17", "2025-03-19", "2025-03-24"}
	require.Len(t, got, len(want))
	for i, d := range got {
		assert.Equal(t, want[i], d.Format("2006-01-02"))
	}
	assert.Empty(t, recurringDates(day("2025-03-10"), []string{"Monday"}, 0))
}

func TestApply_EndTimeMustFollowStart(t *testing.T) {
	in := classInput{
		Name: "Spin", Instructor: "Sam", Date: "2025-03-12",
		StartTime: "10:00", EndTime: "09:30", Duration: 30, Capacity: 10, Status: "scheduled",
	}
	var c models.Class
	err := in.apply(&c)
	require.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Equal(t, "End time must be after the start time.", apiclient.Message(err))
}

func TestApply_DropsDaysWhenNotRecurring(t *testing.T) {
	in := classInput{
		Name: "Spin", Instructor: "Sam", Date: "2025-03-12",
		StartTime: "09:00", EndTime: "10:00", Duration: 60, Capacity: 10, Status: "scheduled",
		RecurringDays: []string{"Friday"},
	}
	var c models.Class
	require.NoError(t, in.apply(&c))
	assert.False(t, c.Recurring)
	assert.Nil(t, c.RecurringDays)
	assert.Equal(t, day("2025-03-12"), c.Date)
}

func TestBuildShow_Candidates(t *testing.T) {
	c := models.ClassWithMembers{
		Class: models.Class{ID: "c1", Capacity: 2, EnrolledMembers: []string{"m1"}, WaitList: []string{"m2"}},
		EnrolledMembersDetails: []models.Member{{ID: "m1", FirstName: "Ada"}},
		WaitListDetails:        []models.Member{{ID: "m2", FirstName: "Bea"}},
	}
	all := []models.Member{
		{ID: "m1", FirstName: "Ada"},
		{ID: "m2", FirstName: "Bea"},
		{ID: "m4", FirstName: "Dan", Email: "dan@club.test"},
		{ID: "m3", FirstName: "Cy", Email: "cy@club.test"},
	}

	d := buildShow(c, all, true, "")
	require.Len(t, d.Candidates, 2)
	assert.Equal(t, "m3", d.Candidates[0].Value)
	assert.Equal(t, 1, d.OpenSpots)
	assert.Equal(t, "/classes/c1/unenroll/m1", d.Enrolled[0].UnenrollURL)

	d = buildShow(c, all, true, "DAN")
	require.Len(t, d.Candidates, 1)
	assert.Equal(t, "m4", d.Candidates[0].Value)

	d = buildShow(c, all, true, "nobody")
	assert.Equal(t, "No members found matching your search", d.CandidateNote)

	d = buildShow(c, nil, false, "")
	assert.Equal(t, "Members could not be loaded.", d.CandidateNote)
}

func seedClasses(api *testutil.FakeAPI, ids ...string) {
	for _, id := range ids {
		api.Seed("classes", models.Class{ID: id, Name: "Class " + id, Capacity: 10})
	}
}

func bulkForm(confirm string, ids ...string) url.Values {
	v := url.Values{"id": ids}
	if confirm != "" {
		v.Set("confirm", confirm)
	}
	return v
}

func countDeletes(api *testutil.FakeAPI) int {
	n := 0
	for _, line := range api.Requests() {
		if strings.HasPrefix(line, "DELETE ") {
			n++
		}
	}
	return n
}

func TestHandleBulkDelete_Confirmed(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	seedClasses(api, "c1", "c2", "c3")
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleBulkDelete(rec, testutil.NewFormRequest("/classes/delete", bulkForm("yes", "c1", "c2"), testutil.AdminUser()))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/classes", rec.Header().Get("Location"))
	assert.Equal(t, []string{"c3"}, api.IDs("classes"))
	assert.Equal(t, []string{"Deleted 2 classes."}, messages(testutil.FlashesFrom(t, h.SM, rec)))
}

func TestHandleBulkDelete_DeclinedMakesNoCalls(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	seedClasses(api, "c1", "c2")
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleBulkDelete(rec, testutil.NewFormRequest("/classes/delete", bulkForm("", "c1", "c2"), testutil.AdminUser()))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, countDeletes(api))
	assert.Equal(t, 2, api.Count("classes"))
	assert.Empty(t, testutil.FlashesFrom(t, h.SM, rec))
}

func TestHandleBulkDelete_NothingSelected(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleBulkDelete(rec, testutil.NewFormRequest("/classes/delete", url.Values{"confirm": {"yes"}}, testutil.AdminUser()))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, api.Requests())
	assert.Equal(t, []string{noneSelected}, messages(testutil.FlashesFrom(t, h.SM, rec)))
}

func TestHandleBulkDelete_PartialFailure(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	seedClasses(api, "c1", "c2")
	api.Fail("DELETE /api/classes/c2", http.StatusConflict)
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleBulkDelete(rec, testutil.NewFormRequest("/classes/delete", bulkForm("yes", "c1", "c2"), testutil.AdminUser()))

	assert.Equal(t, []string{"c2"}, api.IDs("classes"))
	assert.ElementsMatch(t,
		[]string{"Failed to delete some classes: Conflict", "Deleted 1 class."},
		messages(testutil.FlashesFrom(t, h.SM, rec)))
}

func TestServeBulkConfirm_NothingSelectedRedirects(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.ServeBulkConfirm(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/classes/delete?id=+", testutil.AdminUser()))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/classes", rec.Header().Get("Location"))
}

func TestHandleEnroll_WaitListsWhenFull(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("classes", models.Class{ID: "c1", Name: "Spin", Capacity: 1})
	h := newTestHandler(t, api)

	form := url.Values{"member_id": {"m1", "m2"}}
	req := testutil.WithChiURLParam(testutil.NewFormRequest("/classes/c1/enroll", form, testutil.AdminUser()), "id", "c1")
	rec := httptest.NewRecorder()
	h.HandleEnroll(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/classes/c1", rec.Header().Get("Location"))
	stored, _ := api.Record("classes", "c1")
	assert.Equal(t, []any{"m1"}, stored["enrolled_members"])
	assert.Equal(t, []any{"m2"}, stored["wait_list"])
	assert.Equal(t,
		[]string{"Enrolled 1 member; added 1 member to the wait list."},
		messages(testutil.FlashesFrom(t, h.SM, rec)))
}

func TestHandleEnroll_Conflict(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("classes", models.Class{ID: "c1", Capacity: 5, EnrolledMembers: []string{"m1"}})
	h := newTestHandler(t, api)

	req := testutil.WithChiURLParam(testutil.NewFormRequest("/classes/c1/enroll", url.Values{"member_id": {"m1"}}, testutil.AdminUser()), "id", "c1")
	rec := httptest.NewRecorder()
	h.HandleEnroll(rec, req)

	flashes := testutil.FlashesFrom(t, h.SM, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, auth.FlashError, flashes[0].Level)
	assert.Equal(t, "Failed to enroll member: Member already enrolled", flashes[0].Message)
}

func TestHandleUnenroll(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("classes", models.Class{ID: "c1", Capacity: 1, EnrolledMembers: []string{"m1"}, WaitList: []string{"m2"}})
	h := newTestHandler(t, api)

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := testutil.NewFormRequest("/classes/c1/unenroll/m1", form, testutil.AdminUser())
		req = testutil.WithChiURLParam(req, "id", "c1", "memberID", "m1")
		rec := httptest.NewRecorder()
		h.HandleUnenroll(rec, req)
		return rec
	}

	rec := post(url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, countDeletes(api))

	rec = post(url.Values{"confirm": {"yes"}})
	assert.Equal(t, "/classes/c1", rec.Header().Get("Location"))
	stored, _ := api.Record("classes", "c1")
	assert.Equal(t, []any{"m2"}, stored["enrolled_members"])
	assert.Equal(t, []string{"Member removed from class."}, messages(testutil.FlashesFrom(t, h.SM, rec)))
}

func classForm() url.Values {
	return url.Values{
		"name":       {"Morning Yoga"},
		"instructor": {"Sam"},
		"date":       {"2025-03-10"},
		"start_time": {"09:00"},
		"end_time":   {"10:00"},
		"duration":   {"60"},
		"capacity":   {"12"},
		"status":     {"scheduled"},
	}
}

func TestHandleCreate_Single(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.NewFormRequest("/classes", classForm(), testutil.AdminUser()))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	ids := api.IDs("classes")
	require.Len(t, ids, 1)
	assert.Equal(t, "/classes/"+ids[0], rec.Header().Get("Location"))
	assert.Equal(t, []string{"Class created."}, messages(testutil.FlashesFrom(t, h.SM, rec)))
}

func TestHandleCreate_RecurringCreatesEachInstance(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newTestHandler(t, api)

	form := classForm()
	form.Set("recurring", "on")
	form["recurring_days"] = []string{"Monday", "Wednesday"}
	form.Set("recurring_weeks", "2")

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.NewFormRequest("/classes", form, testutil.AdminUser()))

	assert.Equal(t, "/classes", rec.Header().Get("Location"))
	assert.Equal(t, 4, api.Count("classes"))
	assert.Equal(t, []string{"Created 4 class instances."}, messages(testutil.FlashesFrom(t, h.SM, rec)))
}

func TestHandleCreate_StoresPickedDay(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.NewFormRequest("/classes", classForm(), testutil.AdminUser()))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	ids := api.IDs("classes")
	require.Len(t, ids, 1)
	stored, _ := api.Record("classes", ids[0])
	assert.Equal(t, "2025-03-10T00:00:00Z", stored["date"])
}

func TestHandleEdit_SendsDayAndKeepsEnrollment(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("classes", models.Class{
		ID: "c1", Name: "Spin", Instructor: "Sam", Capacity: 12,
		Date:            day("2025-03-01"),
		StartTime:       "09:00",
		EndTime:         "10:00",
		EnrolledMembers: []string{"m1"},
	})
	h := newTestHandler(t, api)

	req := testutil.WithChiURLParam(testutil.NewFormRequest("/classes/c1/edit", classForm(), testutil.AdminUser()), "id", "c1")
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/classes/c1", rec.Header().Get("Location"))
	stored, _ := api.Record("classes", "c1")
	assert.Equal(t, "Morning Yoga", stored["name"])
	assert.Equal(t, "2025-03-10T00:00:00Z", stored["date"])
	assert.Equal(t, []any{"m1"}, stored["enrolled_members"])
}
