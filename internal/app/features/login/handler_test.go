package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/features/login"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, limiter *ratelimit.Limiter) (*login.Handler, *testutil.FakeAPI, *auth.SessionManager) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	sm := testutil.NewSessionManager(t)
	logger := zap.NewNop()
	h := login.NewHandler(api.Client(t), sm, uierrors.NewErrorLogger(logger), nil, nil, limiter, logger)
	return h, api, sm
}

func postLogin(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "10.0.0.7:5123"
	rec := httptest.NewRecorder()

	// A rejected sign-in renders the form, which panics without loaded templates.
	func() {
		defer func() { recover() }()
		h.HandleLoginPost(rec, req)
	}()
	return rec
}

// signedInUser replays the cookies on rec through LoadSessionUser.
func signedInUser(sm *auth.SessionManager, rec *httptest.ResponseRecorder) (*auth.SessionUser, bool) {
	var u *auth.SessionUser
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok = auth.CurrentUser(r)
	})
	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	sm.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), req)
	return u, ok
}

func TestHandleLoginPost_Success(t *testing.T) {
	h, _, sm := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{"email": {"admin@club.test"}, "password": {"secret123"}})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Errorf("Location: got %q, want %q", got, "/dashboard")
	}

	u, ok := signedInUser(sm, rec)
	if !ok {
		t.Fatal("expected a signed-in session")
	}
	if u.Token != "token:admin@club.test" {
		t.Errorf("Token: got %q", u.Token)
	}
	if u.Name != "Test Staff" || u.Role != "admin" || u.ID != "user:admin@club.test" {
		t.Errorf("unexpected session user %+v", *u)
	}
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{
		"email":    {"admin@club.test"},
		"password": {"secret123"},
		"return":   {"/members"},
	})

	if got := rec.Header().Get("Location"); got != "/members" {
		t.Errorf("Location: got %q, want %q", got, "/members")
	}
}

func TestHandleLoginPost_EmailIsTrimmedAndLowercased(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{"email": {"  ADMIN@Club.test "}, "password": {"secret123"}})

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	h, api, sm := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{"email": {"admin@club.test"}, "password": {"nope"}})

	if _, ok := signedInUser(sm, rec); ok {
		t.Error("session should not be signed in after a rejected login")
	}
	if got := len(api.Requests()); got != 1 {
		t.Errorf("expected 1 API request, got %d", got)
	}
}

func TestHandleLoginPost_MissingFieldsSkipAPI(t *testing.T) {
	h, api, _ := newTestHandler(t, nil)

	postLogin(h, url.Values{"email": {"admin@club.test"}})

	if got := len(api.Requests()); got != 0 {
		t.Errorf("expected no API request, got %d", got)
	}
}

func TestHandleLoginPost_RateLimitedPerIP(t *testing.T) {
	h, api, sm := newTestHandler(t, ratelimit.New(2))

	postLogin(h, url.Values{"email": {"admin@club.test"}, "password": {"bad1"}})
	postLogin(h, url.Values{"email": {"admin@club.test"}, "password": {"bad2"}})
	rec := postLogin(h, url.Values{"email": {"admin@club.test"}, "password": {"secret123"}})

	if _, ok := signedInUser(sm, rec); ok {
		t.Error("third attempt inside the window should be refused")
	}
	if got := len(api.Requests()); got != 2 {
		t.Errorf("expected 2 API requests, got %d", got)
	}
}

func TestServeLogin_SignedInGoesToDashboard(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)

	req := testutil.NewAuthenticatedRequest("GET", "/login", testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Errorf("Location: got %q, want %q", got, "/dashboard")
	}
}
