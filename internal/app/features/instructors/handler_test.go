package instructors

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func TestBuildShow_ClubsAndClasses(t *testing.T) {
	in := models.Instructor{ID: "i1", Name: "Sam", Active: true, ClubIDs: []string{"k2"}}
	clubs := []models.Club{
		{ID: "k1", Name: "North", City: "Austin", State: "TX"},
		{ID: "k2", Name: "South", City: "Dallas", State: "TX"},
	}
	var classes []models.Class
	for i := -7; i <= 7; i++ {
		classes = append(classes, models.Class{ID: "c", Name: "Spin", Instructor: "Sam", Date: now.AddDate(0, 0, i)})
	}
	classes = append(classes, models.Class{Instructor: "Other", Date: now})

	d := buildShow(in, clubs, classes, now)

	require.Len(t, d.Clubs, 1)
	assert.Equal(t, "South", d.Clubs[0].Name)
	assert.Equal(t, "Dallas, TX", d.Clubs[0].Location)
	assert.Equal(t, 15, d.ClassCount)
	require.Len(t, d.Upcoming, recentLimit)
	require.Len(t, d.Past, recentLimit)
	// Today's class counts as upcoming even after it started.
	assert.Equal(t, "Mon, Mar 10, 2025", d.Upcoming[0].Date)
	assert.Equal(t, "Sun, Mar 9, 2025", d.Past[0].Date)
	assert.Equal(t, "Active", d.ActiveLabel)
}

func TestNewRow(t *testing.T) {
	row := newRow(models.Instructor{ID: "i1", Name: "Sam", Active: false})
	assert.Equal(t, "Inactive", row.ActiveLabel)
}

func TestHandleEdit_UpdatesClubs(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("instructors", models.Instructor{ID: "i1", Name: "Sam", Email: "sam@club.test"})
	h := NewHandler(api.Client(t), testutil.NewSessionManager(t), uierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop())

	form := url.Values{
		"name":      {"Sam Lee"},
		"email":     {"Sam@Club.test"},
		"phone":     {"555-0100"},
		"specialty": {"Spin"},
		"active":    {"on"},
		"club_ids":  {"k1", "k2"},
	}
	req := testutil.WithChiURLParam(testutil.NewFormRequest("/instructors/i1/edit", form, testutil.AdminUser()), "id", "i1")
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/instructors/i1", rec.Header().Get("Location"))
	stored, _ := api.Record("instructors", "i1")
	assert.Equal(t, "Sam Lee", stored["name"])
	assert.Equal(t, "sam@club.test", stored["email"])
	assert.Equal(t, []any{"k1", "k2"}, stored["club_ids"])
	assert.Equal(t, true, stored["active"])

	flashes := testutil.FlashesFrom(t, h.SM, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Instructor updated.", flashes[0].Message)
}

func TestHandleDelete_RemovesInstructor(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("instructors", models.Instructor{ID: "i1", Name: "Sam"})
	h := NewHandler(api.Client(t), testutil.NewSessionManager(t), uierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop())

	req := testutil.WithChiURLParam(testutil.NewFormRequest("/instructors/i1/delete", url.Values{"confirm": {"yes"}}, testutil.AdminUser()), "id", "i1")
	rec := httptest.NewRecorder()
	h.del.HandleDelete(rec, req)

	assert.Equal(t, "/instructors", rec.Header().Get("Location"))
	assert.Zero(t, api.Count("instructors"))
	flashes := testutil.FlashesFrom(t, h.SM, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Instructor deleted.", flashes[0].Message)
}
