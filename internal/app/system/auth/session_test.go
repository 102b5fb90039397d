package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": "u-1",
		"email":   "staff@club.test",
		"role":    "admin",
		"exp":     exp.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// roundTrip signs u in, then replays the resulting cookie through
// LoadSessionUser and returns what the inner handler saw.
func roundTrip(t *testing.T, sm *auth.SessionManager, u auth.SessionUser) (*auth.SessionUser, bool, *httptest.ResponseRecorder) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, req, u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.SessionUser
	var ok bool
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.CurrentUser(r)
	}))

	next := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	out := httptest.NewRecorder()
	h.ServeHTTP(out, next)
	return got, ok, out
}

func TestSignIn_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	tok := signToken(t, time.Now().Add(time.Hour))

	got, ok, _ := roundTrip(t, sm, auth.SessionUser{
		ID:      "u-1",
		Name:    "Sam Staff",
		Email:   "staff@club.test",
		Role:    "club_manager",
		ClubIDs: []string{"c1", "c2"},
		Token:   tok,
	})

	if !ok {
		t.Fatal("expected user in context")
	}
	if got.Name != "Sam Staff" || got.Role != "club_manager" {
		t.Errorf("user: got %+v", got)
	}
	if len(got.ClubIDs) != 2 || got.ClubIDs[1] != "c2" {
		t.Errorf("ClubIDs: got %v", got.ClubIDs)
	}
	if got.Token != tok {
		t.Error("expected token to survive the round trip")
	}
}

func TestLoadSessionUser_ExpiredTokenSignsOut(t *testing.T) {
	sm := newTestSessionManager(t)
	tok := signToken(t, time.Now().Add(-time.Minute))

	_, ok, rec := roundTrip(t, sm, auth.SessionUser{ID: "u-1", Role: "admin", Token: tok})

	if ok {
		t.Error("expected expired session to be anonymous")
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	got, ok := auth.TokenExpiry(signToken(t, exp))
	if !ok {
		t.Fatal("expected expiry to be readable")
	}
	if !got.Equal(exp) {
		t.Errorf("expiry: got %v, want %v", got, exp)
	}
}

func TestTokenExpired_OpaqueTokenIsLive(t *testing.T) {
	if auth.TokenExpired("not-a-jwt", time.Now()) {
		t.Error("opaque token should not be treated as expired")
	}
	if auth.TokenExpired("", time.Now()) {
		t.Error("empty token should not be treated as expired")
	}
}

func TestFlashes_SurviveRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/members/1/delete", nil)
	sm.Notifier(rec, req).NotifyError("Failed to delete member: locked")

	var got []auth.Flash
	h := sm.LoadFlashes(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.Flashes(r)
	}))

	next := httptest.NewRequest("GET", "/members", nil)
	next.Header.Set("Accept", "text/html")
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), next)

	if len(got) != 1 {
		t.Fatalf("flashes: got %d, want 1", len(got))
	}
	if got[0].Level != auth.FlashError || got[0].Message != "Failed to delete member: locked" {
		t.Errorf("flash: got %+v", got[0])
	}
}

func TestLoadSessionUser_ExpiredTokenRunsHook(t *testing.T) {
	sm := newTestSessionManager(t)
	var expired []string
	sm.OnExpired(func(r *http.Request, u auth.SessionUser) {
		expired = append(expired, u.ID+"/"+u.ActivityID)
	})

	roundTrip(t, sm, auth.SessionUser{ID: "u-9", Role: "office", Token: signToken(t, time.Now().Add(-time.Minute)), ActivityID: "abc"})

	if len(expired) != 1 || expired[0] != "u-9/abc" {
		t.Errorf("hook calls: got %v", expired)
	}
}
