package members

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T, api *testutil.FakeAPI) *Handler {
	t.Helper()
	h := NewHandler(api.Client(t), testutil.NewSessionManager(t), uierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop())
	h.now = func() time.Time { return fixedNow }
	return h
}

func validForm() url.Values {
	return url.Values{
		"first_name":      {"Ada"},
		"last_name":       {"Lovelace"},
		"email":           {"ADA@club.test"},
		"membership_type": {"premium"},
		"status":          {"active"},
		"join_date":       {"2025-01-01"},
		"expiry_date":     {"2026-01-01"},
		"auto_renewal":    {"on"},
	}
}

func TestNewRow(t *testing.T) {
	m := models.Member{
		ID: "m1", FirstName: "Ada", LastName: "Lovelace", Status: "suspended",
		JoinDate:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		ExpiryDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	row := newRow(m, fixedNow)

	assert.Equal(t, "Ada Lovelace", row.Name)
	assert.Equal(t, "badge-yellow", row.StatusClass)
	assert.Equal(t, "Tue, Jan 2, 2024", row.JoinDate)
	assert.True(t, row.Expired)
}

func TestBuildShow_ExpiryNote(t *testing.T) {
	tests := []struct {
		expiry time.Time
		want   string
	}{
		{time.Time{}, ""},
		{fixedNow.Add(2 * time.Hour), "Expires today"},
		{fixedNow.AddDate(0, 0, -3), "Expired"},
		{fixedNow.AddDate(0, 0, 1), "Expires tomorrow"},
		{fixedNow.AddDate(0, 0, 10), "Expires in 10 days"},
	}
	for _, tc := range tests {
		d := buildShow(models.Member{ExpiryDate: tc.expiry}, fixedNow)
		assert.Equal(t, tc.want, d.ExpiryNote, "expiry %v", tc.expiry)
	}
}

func TestBuildShow_Billing(t *testing.T) {
	d := buildShow(models.Member{
		AutoRenewal:    true,
		Notes:          "Prefers mornings",
		BillingHistory: []models.BillingEntry{{Amount: 49.5, Description: "Monthly", Status: "paid"}},
	}, fixedNow)

	assert.Equal(t, "Yes", d.AutoRenewal)
	assert.Equal(t, "<p>Prefers mornings</p>", string(d.Notes))
	require.Len(t, d.Billing, 1)
	assert.Equal(t, "$49.50", d.Billing[0].Amount)
}

func TestApply_RejectsExpiryBeforeJoin(t *testing.T) {
	in := memberInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@club.test",
		MembershipType: "basic", Status: "active",
		JoinDate: "2025-02-01", ExpiryDate: "2025-01-01",
	}
	var m models.Member
	err := in.apply(&m)
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Equal(t, "Expiry date must be on or after the join date.", apiclient.Message(err))
	assert.Empty(t, m.FirstName)
}

func TestApply_RequiresFields(t *testing.T) {
	var m models.Member
	err := memberInput{}.apply(&m)
	require.Error(t, err)
	assert.Equal(t, "First name is required.", apiclient.Message(err))
}

func TestHandleCreate_PostsAndRedirects(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.NewFormRequest("/members", validForm(), testutil.AdminUser()))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	ids := api.IDs("members")
	require.Len(t, ids, 1)
	assert.Equal(t, "/members/"+ids[0], rec.Header().Get("Location"))

	stored, _ := api.Record("members", ids[0])
	assert.Equal(t, "ada@club.test", stored["email"])
	assert.Equal(t, true, stored["auto_renewal"])

	flashes := testutil.FlashesFrom(t, h.SM, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Member created.", flashes[0].Message)
}

func TestHandleEdit_KeepsUnlistedFields(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("members", models.Member{ID: "m1", FirstName: "Old", ClubIDs: []string{"c1"}})
	h := newTestHandler(t, api)

	req := testutil.NewFormRequest("/members/m1/edit", validForm(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", "m1")
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/members/m1", rec.Header().Get("Location"))
	stored, _ := api.Record("members", "m1")
	assert.Equal(t, "Ada", stored["first_name"])
	assert.Equal(t, []any{"c1"}, stored["club_ids"])
}

func TestServeList_UnauthorizedRedirectsToLogin(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Fail("GET /api/members", http.StatusUnauthorized)
	h := newTestHandler(t, api)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/members", testutil.AdminUser())
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login")
}

func TestServeExport_WritesFilteredSortedWorkbook(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("members", models.Member{ID: "m1", FirstName: "Zed", LastName: "Young", Email: "zed@club.test"})
	api.Seed("members", models.Member{ID: "m2", FirstName: "Amy", LastName: "Young", Email: "amy@club.test"})
	api.Seed("members", models.Member{ID: "m3", FirstName: "Bob", LastName: "Stone", Email: "bob@club.test"})
	h := newTestHandler(t, api)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/members/export?q=young&sort=name", testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeExport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "members-2025-03-10.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "First Name", rows[0][0])
	assert.Equal(t, "Amy", rows[1][0])
	assert.Equal(t, "Zed", rows[2][0])
}

func TestServeExport_LoadFailureFlashes(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Fail("GET /api/members", http.StatusInternalServerError)
	h := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.ServeExport(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/members/export", testutil.AdminUser()))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/members", rec.Header().Get("Location"))
	flashes := testutil.FlashesFrom(t, h.SM, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, auth.FlashError, flashes[0].Level)
	assert.Equal(t, "Export failed: Internal Server Error", flashes[0].Message)
}
