package clubs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, api *testutil.FakeAPI) *Handler {
	t.Helper()
	return NewHandler(api.Client(t), testutil.NewSessionManager(t), uierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "Austin, TX 78701", location(models.Club{City: "Austin", State: "TX", ZipCode: "78701"}))
	assert.Equal(t, "TX", location(models.Club{State: "TX"}))
	assert.Equal(t, "Austin 78701", location(models.Club{City: "Austin", ZipCode: "78701"}))
	assert.Empty(t, location(models.Club{}))
}

func TestBuildShow_FiltersMembersAndInstructorsByClub(t *testing.T) {
	club := models.Club{ID: "k1", Name: "North", City: "Austin", State: "TX", Active: true}
	rel := related{
		members: []models.Member{
			{ID: "m1", FirstName: "Amy", LastName: "Ng", MembershipType: "premium", ClubIDs: []string{"k1"}},
			{ID: "m2", FirstName: "Bo", LastName: "Li", ClubIDs: []string{"k2"}},
		},
		instructors: []models.Instructor{
			{ID: "i1", Name: "Sam", Specialty: "Spin", ClubIDs: []string{"k2", "k1"}},
		},
		restaurants: []models.Restaurant{{ID: "r1", Name: "Grill", Cuisine: "American"}},
	}

	d := buildShow(club, rel)

	require.Len(t, d.Sections, 4)
	members := d.Sections[0]
	require.Len(t, members.Links, 1)
	assert.Equal(t, link{URL: "/members/m1", Label: "Amy Ng", Detail: "premium"}, members.Links[0])
	assert.Equal(t, "/instructors/i1", d.Sections[1].Links[0].URL)
	assert.Equal(t, "Grill", d.Sections[2].Links[0].Label)
	assert.Empty(t, d.Sections[3].Links)
	assert.Equal(t, "No offices at this club", d.Sections[3].Empty)
	assert.Equal(t, "Active", d.ActiveLabel)
	assert.Equal(t, "Austin, TX", d.Location)
}

func TestBuildShow_SectionErrorKeepsOthers(t *testing.T) {
	rel := related{
		offices:    []models.Office{{ID: "o1", Name: "Suite A", Type: "private"}},
		membersErr: errors.New("boom"),
	}
	d := buildShow(models.Club{ID: "k1"}, rel)

	assert.NotEmpty(t, d.Sections[0].Error)
	assert.Empty(t, d.Sections[1].Error)
	require.Len(t, d.Sections[3].Links, 1)
	assert.Equal(t, "/offices/o1", d.Sections[3].Links[0].URL)
}

func TestLoadRelated_ScopesByClubAndIsolatesFailures(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("restaurants", models.Restaurant{ID: "r1", ClubID: "k1", Name: "Grill"})
	api.Seed("restaurants", models.Restaurant{ID: "r2", ClubID: "k2", Name: "Cafe"})
	api.Seed("offices", models.Office{ID: "o1", ClubID: "k1", Name: "Suite A"})
	api.Fail("GET /api/offices", http.StatusInternalServerError)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rel := loadRelated(ctx, api.Client(t), "k1")

	require.NoError(t, rel.restaurantsErr)
	require.Len(t, rel.restaurants, 1)
	assert.Equal(t, "r1", rel.restaurants[0].ID)
	assert.Error(t, rel.officesErr)
	assert.NoError(t, rel.membersErr)
	assert.False(t, rel.unauthorized())
}

func TestHandleCreate_ValidatesThenPosts(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newHandler(t, api)

	form := url.Values{
		"name":     {"North"},
		"address":  {"1 Main St"},
		"city":     {"Austin"},
		"state":    {"tx"},
		"zip_code": {"78701"},
		"phone":    {"555-0100"},
		"email":    {"North@Club.test"},
		"active":   {"on"},
	}
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.NewFormRequest("/clubs", form, testutil.AdminUser()))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	ids := api.IDs("clubs")
	require.Len(t, ids, 1)
	assert.Equal(t, "/clubs/"+ids[0], rec.Header().Get("Location"))
	stored, _ := api.Record("clubs", ids[0])
	assert.Equal(t, "TX", stored["state"])
	assert.Equal(t, "north@club.test", stored["email"])

	flashes := testutil.FlashesFrom(t, h.SM, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Club created.", flashes[0].Message)
}

func TestApply_RequiresAddress(t *testing.T) {
	in := clubInput{Name: "North", City: "Austin", State: "TX", ZipCode: "1", Phone: "1", Email: "a@b.test"}
	var c models.Club
	err := in.apply(&c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Address is required.")
	assert.Empty(t, c.Name)
}

func TestHandleEdit_KeepsCreatedAt(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("clubs", map[string]any{"id": "k1", "name": "North", "created_at": "2024-01-02T00:00:00Z"})
	h := newHandler(t, api)

	form := url.Values{
		"name": {"North Club"}, "address": {"1 Main St"}, "city": {"Austin"}, "state": {"TX"},
		"zip_code": {"78701"}, "phone": {"555-0100"}, "email": {"north@club.test"},
	}
	req := testutil.WithChiURLParam(testutil.NewFormRequest("/clubs/k1/edit", form, testutil.AdminUser()), "id", "k1")
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	stored, _ := api.Record("clubs", "k1")
	assert.Equal(t, "North Club", stored["name"])
	assert.Equal(t, "2024-01-02T00:00:00Z", stored["created_at"])
	assert.Equal(t, false, stored["active"])
}
