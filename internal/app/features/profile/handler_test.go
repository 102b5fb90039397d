package profile

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidatePasswordChange(t *testing.T) {
	tests := []struct {
		name                   string
		current, next, confirm string
		want                   string
	}{
		{"ok", "old-pass", "new-password", "new-password", ""},
		{"missing current", "", "new-password", "new-password", "Please enter your current password"},
		{"mismatch", "old-pass", "new-password", "new-passw0rd", "New passwords do not match"},
		{"too short", "old-pass", "short", "short", "New password must be at least 8 characters"},
		{"exactly eight", "old-pass", "12345678", "12345678", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePasswordChange(tt.current, tt.next, tt.confirm)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apiclient.ErrValidation))
			assert.Equal(t, tt.want, apiclient.Message(err))
		})
	}
}

func newTestHandler(t *testing.T) (*Handler, *testutil.FakeAPI, *auth.SessionManager) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	sm := testutil.NewSessionManager(t)
	logger := zap.NewNop()
	return NewHandler(api.Client(t), sm, uierrors.NewErrorLogger(logger), nil, logger), api, sm
}

func staff() testutil.TestUser {
	u := testutil.AdminUser()
	u.Token = "token:admin@club.test"
	return u
}

func TestHandleChangePassword_Success(t *testing.T) {
	h, api, sm := newTestHandler(t)

	req := testutil.NewFormRequest("/profile/password", url.Values{
		"current_password": {"secret123"},
		"new_password":     {"brand-new-pass"},
		"confirm_password": {"brand-new-pass"},
	}, staff())
	rec := httptest.NewRecorder()
	h.HandleChangePassword(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
	assert.Equal(t, "brand-new-pass", api.Accounts["admin@club.test"])

	flashes := testutil.FlashesFrom(t, sm, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Password changed successfully.", flashes[0].Message)
}

func TestHandleChangePassword_MismatchNeverCallsAPI(t *testing.T) {
	h, api, _ := newTestHandler(t)

	req := testutil.NewFormRequest("/profile/password", url.Values{
		"current_password": {"secret123"},
		"new_password":     {"brand-new-pass"},
		"confirm_password": {"different-pass"},
	}, staff())
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }() // the form re-render needs loaded templates
		h.HandleChangePassword(rec, req)
	}()

	for _, line := range api.Requests() {
		assert.NotEqual(t, "POST /api/me/change-password", line)
	}
	assert.Equal(t, "secret123", api.Accounts["admin@club.test"])
}

func TestHandleChangePassword_RejectedSessionGoesToLogin(t *testing.T) {
	h, api, _ := newTestHandler(t)
	api.Fail("POST /api/me/change-password", http.StatusUnauthorized)

	req := testutil.NewFormRequest("/profile/password", url.Values{
		"current_password": {"secret123"},
		"new_password":     {"brand-new-pass"},
		"confirm_password": {"brand-new-pass"},
	}, staff())
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.HandleChangePassword(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login?return=")
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Club Manager", roleLabel("club_manager"))
	assert.Equal(t, "custom", roleLabel("custom"))
}
