package listpage_test

import (
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/search"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type item struct {
	ID   string
	Name string
	City string
}

var opts = listpage.Options[item]{
	Kind:   listctl.Clubs,
	Title:  "Clubs",
	Fields: func(i item) []string { return []string{i.Name, i.City} },
	Sorts: map[string]listpage.Sort[item]{
		"name": {Compare: func(a, b item) int { return strings.Compare(a.Name, b.Name) }},
		"city": {
			Compare: func(a, b item) int { return strings.Compare(a.City, b.City) },
			Missing: func(i item) bool { return i.City == "" },
		},
	},
	DefaultSort: "name",
}

func name(i item) string { return i.Name }

func listpageQuery(text, sort, dir string) search.Query {
	return search.Query{Text: text, Sort: sort, Dir: dir}
}

func loaded(items ...item) listctl.ViewState[item] {
	return listctl.ViewState[item]{Phase: listctl.Loaded, Items: items}
}

func TestBuild_LoadedRows(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/clubs", nil)
	p := listpage.Build(r, loaded(item{"2", "Pilates", "B"}, item{"1", "Yoga", "A"}), nil, opts, name)

	assert.True(t, p.ShowList)
	assert.False(t, p.ShowEmpty)
	assert.False(t, p.ShowError)
	assert.Equal(t, "All Clubs (2)", p.Heading)
	assert.Equal(t, []string{"Pilates", "Yoga"}, p.Rows)
}

func TestBuild_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/clubs", nil)
	p := listpage.Build(r, loaded(), nil, opts, name)

	assert.True(t, p.ShowEmpty)
	assert.False(t, p.ShowList)
	assert.Equal(t, "No clubs found", p.EmptyText)
	assert.Equal(t, 0, p.Total)
}

func TestBuild_Error(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/clubs", nil)
	st := listctl.ViewState[item]{Phase: listctl.Failed, ErrorMessage: "Failed to load clubs"}
	p := listpage.Build(r, st, []string{"Failed to load clubs"}, opts, name)

	assert.True(t, p.ShowError)
	assert.False(t, p.ShowList)
	assert.False(t, p.ShowEmpty)
	assert.Equal(t, "Failed to load clubs", p.ErrorMessage)
	assert.Equal(t, []string{"Failed to load clubs"}, p.Notices)
}

func TestBuild_SearchShowsFilteredCount(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/clubs?q=yo", nil)
	p := listpage.Build(r, loaded(item{"1", "Yoga", ""}, item{"2", "Pilates", ""}), nil, opts, name)

	assert.True(t, p.Filtered)
	assert.Equal(t, "All Clubs (1 of 2)", p.Heading)
	assert.Equal(t, []string{"Yoga"}, p.Rows)
}

func TestBuild_SearchWithNoMatches(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/clubs?q=zumba", nil)
	p := listpage.Build(r, loaded(item{"1", "Yoga", ""}), nil, opts, name)

	assert.True(t, p.ShowEmpty)
	assert.Equal(t, `No clubs found matching "zumba"`, p.EmptyText)
}

func TestBuild_SortMissingLast(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/clubs?sort=city&dir=desc", nil)
	p := listpage.Build(r, loaded(item{"1", "A", ""}, item{"2", "B", "Austin"}, item{"3", "C", "Boston"}), nil, opts, name)

	assert.Equal(t, []string{"C", "B", "A"}, p.Rows)
	assert.Equal(t, "/clubs?dir=asc&sort=city", p.SortURL["city"])
}

func TestBuild_UnknownSortFallsBack(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/clubs?sort=bogus", nil)
	p := listpage.Build(r, loaded(item{"1", "b", ""}, item{"2", "a", ""}), nil, opts, name)

	assert.Equal(t, "name", p.Query.Sort)
	assert.Equal(t, []string{"a", "b"}, p.Rows)
}

func TestBuild_Paging(t *testing.T) {
	o := opts
	o.PageSize = 2
	r := httptest.NewRequest(http.MethodGet, "/clubs?start=3", nil)
	p := listpage.Build(r, loaded(item{"1", "a", ""}, item{"2", "b", ""}, item{"3", "c", ""}), nil, o, name)

	assert.Equal(t, []string{"c"}, p.Rows)
	assert.True(t, p.Range.HasPrev)
	assert.False(t, p.Range.HasNext)
	assert.Equal(t, "/clubs?start=1", p.PrevURL)
}

func TestSelect_DoesNotModifyInput(t *testing.T) {
	in := []item{{"1", "b", ""}, {"2", "a", ""}}
	out := listpage.Select(listpageQuery("", "name", "asc"), in, opts)

	assert.Equal(t, "b", in[0].Name)
	assert.Equal(t, "a", out[0].Name)
}

func TestSelect_Keep(t *testing.T) {
	o := opts
	o.Keep = func(i item) bool { return i.City == "Austin" }
	out := listpage.Select(listpageQuery("", "", ""), []item{{"1", "a", "Austin"}, {"2", "b", "Boston"}}, o)

	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Name)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Confirmed delete                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func newDeleter(t *testing.T, api *testutil.FakeAPI) *listpage.Deleter[models.Member] {
	t.Helper()
	return &listpage.Deleter[models.Member]{
		Kind:     listctl.Members,
		Resource: "members",
		ListURL:  "/members",
		API:      api.Client(t),
		Source:   func(c *apiclient.Client) listctl.Source[models.Member] { return c.Members() },
		IDOf:     func(m models.Member) string { return m.ID },
		SM:       testutil.NewSessionManager(t),
		Log:      zap.NewNop(),
	}
}

func postDelete(d *listpage.Deleter[models.Member], id, answer string) *httptest.ResponseRecorder {
	form := url.Values{}
	if answer != "" {
		form.Set("confirm", answer)
	}
	req := testutil.NewFormRequest("/members/"+id+"/delete", form, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	d.HandleDelete(rec, req)
	return rec
}

func TestHandleDelete_Confirmed(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("members", models.Member{ID: "m1", FirstName: "Ann"})
	api.Seed("members", models.Member{ID: "m2", FirstName: "Bob"})
	d := newDeleter(t, api)

	rec := postDelete(d, "m1", "yes")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/members", rec.Header().Get("Location"))
	_, stillThere := api.Record("members", "m1")
	assert.False(t, stillThere)
	assert.Equal(t, 1, api.Count("members"))

	flashes := testutil.FlashesFrom(t, d.SM, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, auth.FlashSuccess, flashes[0].Level)
	assert.Equal(t, "Member deleted.", flashes[0].Message)
}

func TestHandleDelete_DeclinedMakesNoCall(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("members", models.Member{ID: "m1", FirstName: "Ann"})
	d := newDeleter(t, api)

	rec := postDelete(d, "m1", "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, api.Count("members"))
	for _, line := range api.Requests() {
		assert.NotContains(t, line, "DELETE")
	}
	assert.Empty(t, testutil.FlashesFrom(t, d.SM, rec))
}

func TestHandleDelete_APIFailureFlashesOnce(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("members", models.Member{ID: "m1", FirstName: "Ann"})
	api.Fail("DELETE /api/members/m1", http.StatusConflict)
	d := newDeleter(t, api)

	rec := postDelete(d, "m1", "yes")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, api.Count("members"))
	flashes := testutil.FlashesFrom(t, d.SM, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, auth.FlashError, flashes[0].Level)
	assert.Equal(t, "Failed to delete member: Conflict", flashes[0].Message)
}

func TestHandleDelete_UnknownID(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Seed("members", models.Member{ID: "m1", FirstName: "Ann"})
	d := newDeleter(t, api)

	rec := postDelete(d, "nope", "yes")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, api.Count("members"))
	flashes := testutil.FlashesFrom(t, d.SM, rec)
	require.Len(t, flashes, 1)
	assert.Contains(t, flashes[0].Message, "no longer in the list")
}

func TestHandleDelete_LoadFailureFlashes(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Fail("GET /api/members", http.StatusInternalServerError)
	d := newDeleter(t, api)

	rec := postDelete(d, "m1", "yes")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	flashes := testutil.FlashesFrom(t, d.SM, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Internal Server Error", flashes[0].Message)
}

func TestConfirmPrompt(t *testing.T) {
	assert.Equal(t, "Are you sure you want to delete this class?", listpage.ConfirmPrompt(listctl.Classes))
}

func TestSortHelpers(t *testing.T) {
	type rec struct {
		Name   string
		When   time.Time
		Size   int
		Active bool
	}
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 1, 0)
	items := []rec{
		{Name: "", When: late, Size: 3, Active: true},
		{Name: "emile", When: time.Time{}, Size: 1},
		{Name: "Bea", When: early, Size: 2, Active: true},
	}
	o := listpage.Options[rec]{
		Sorts: map[string]listpage.Sort[rec]{
			"name":   listpage.ByText(func(r rec) string { return r.Name }),
			"when":   listpage.ByTime(func(r rec) time.Time { return r.When }),
			"size":   listpage.ByInt(func(r rec) int { return r.Size }),
			"active": listpage.ByBool(func(r rec) bool { return r.Active }),
		},
	}
	sizes := func(rs []rec) []int {
		out := make([]int, len(rs))
		for i, r := range rs {
			out[i] = r.Size
		}
		return out
	}

	assert.Equal(t, []int{2, 1, 3}, sizes(listpage.Select(listpageQuery("", "name", "asc"), items, o)))
	assert.Equal(t, []int{3, 2, 1}, sizes(listpage.Select(listpageQuery("", "when", "desc"), items, o)))
	assert.Equal(t, []int{3, 2, 1}, sizes(listpage.Select(listpageQuery("", "size", "desc"), items, o)))
	assert.Equal(t, []int{1, 3, 2}, sizes(listpage.Select(listpageQuery("", "active", "asc"), items, o)))
}

func TestByInt_ExtremesDoNotOverflow(t *testing.T) {
	s := listpage.ByInt(func(n int) int { return n })

	assert.Negative(t, s.Compare(math.MinInt, math.MaxInt))
	assert.Positive(t, s.Compare(math.MaxInt, math.MinInt))
	assert.Negative(t, s.Compare(-1, math.MaxInt))
	assert.Zero(t, s.Compare(math.MinInt, math.MinInt))
}
