package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	require.NoError(t, err)
	return sm
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// staff returns req carrying a signed-in user with role.
func staff(req *http.Request, role string) *http.Request {
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:    "user:staff@club.test",
		Name:  "Front Desk",
		Email: "staff@club.test",
		Role:  role,
	})
}

type requestKind int

const (
	browser requestKind = iota
	htmx
	apiCall
)

func newRequest(target string, kind requestKind) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	switch kind {
	case browser:
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
	case htmx:
		req.Header.Set("HX-Request", "true")
	case apiCall:
		req.Header.Set("Accept", "application/json")
	}
	return req
}

func TestRequireSignedIn_Anonymous(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.RequireSignedIn(okHandler)

	tests := []struct {
		name       string
		kind       requestKind
		wantStatus int
		wantHeader string
		wantValue  string
	}{
		{"browser is sent to login with return", browser, http.StatusSeeOther, "Location", "/login?return=%2Fmembers%3Fq%3Dann"},
		{"htmx gets a client redirect", htmx, http.StatusUnauthorized, "HX-Redirect", "/login?return=%2Fmembers%3Fq%3Dann"},
		{"api call gets 401", apiCall, http.StatusUnauthorized, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newRequest("/members?q=ann", tc.kind))

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantHeader != "" {
				assert.Equal(t, tc.wantValue, rec.Header().Get(tc.wantHeader))
			}
		})
	}
}

func TestRequireSignedIn_SignedInProceeds(t *testing.T) {
	sm := newTestSessionManager(t)
	rec := httptest.NewRecorder()

	sm.RequireSignedIn(okHandler).ServeHTTP(rec, staff(newRequest("/dashboard", browser), models.RoleClasses))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.RequireRole(models.RoleAdmin, models.RoleClubManager)(okHandler)

	tests := []struct {
		name       string
		role       string
		kind       requestKind
		wantStatus int
		wantLoc    string
	}{
		{"admin", models.RoleAdmin, browser, http.StatusOK, ""},
		{"club manager", models.RoleClubManager, browser, http.StatusOK, ""},
		{"role is case insensitive", "Club_Manager", browser, http.StatusOK, ""},
		{"restaurant staff forbidden", models.RoleRestaurant, browser, http.StatusSeeOther, "/forbidden"},
		{"office staff forbidden", models.RoleOffice, browser, http.StatusSeeOther, "/forbidden"},
		{"api call forbidden", models.RoleClasses, apiCall, http.StatusForbidden, ""},
		{"anonymous goes to login", "", browser, http.StatusSeeOther, "/login?return=%2Fclubs"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := newRequest("/clubs", tc.kind)
			if tc.role != "" {
				req = staff(req, tc.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantLoc != "" {
				assert.Equal(t, tc.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRequireRole_HTMXForbidden(t *testing.T) {
	sm := newTestSessionManager(t)
	rec := httptest.NewRecorder()

	sm.RequireRole(models.RoleAdmin)(okHandler).ServeHTTP(rec, staff(newRequest("/audit", htmx), models.RoleOffice))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "/forbidden", rec.Header().Get("HX-Redirect"))
}

func TestCurrentUser(t *testing.T) {
	_, ok := auth.CurrentUser(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	u, ok := auth.CurrentUser(staff(httptest.NewRequest(http.MethodGet, "/", nil), models.RoleAllServices))
	require.True(t, ok)
	assert.Equal(t, models.RoleAllServices, u.Role)
	assert.Equal(t, "staff@club.test", u.Email)
}

func TestRedirectToLogin_KeepsQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.RedirectToLogin(rec, newRequest("/classes?sort=date&dir=desc", browser))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?return=%2Fclasses%3Fsort%3Ddate%26dir%3Ddesc", rec.Header().Get("Location"))
}
