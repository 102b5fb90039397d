// internal/app/features/profile/profile.go
package profile

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// MinPasswordLen is the shortest new password accepted.
const MinPasswordLen = 8

// profileData is the view model for the profile page.
type profileData struct {
	viewdata.BaseVM

	// Account info (read-only display)
	FullName string
	Email    string
	Role     string
	Clubs    int

	// Form state
	Error string
}

// ServeProfile renders the signed-in account with the change-password form.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "")
}

// HandleChangePassword processes the password change form. The new
// password is checked locally before the API is called.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		auth.RedirectToLogin(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	current := r.PostFormValue("current_password")
	next := r.PostFormValue("new_password")
	confirm := r.PostFormValue("confirm_password")

	if err := validatePasswordChange(current, next, confirm); err != nil {
		h.render(w, r, apiclient.Message(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "change password")
	defer cancel()

	err := auth.APIClient(r, h.API).ChangePassword(ctx, current, next)
	switch {
	case err == nil:
	case apiclient.IsUnauthorized(err):
		auth.RedirectToLogin(w, r)
		return
	default:
		msg := apiclient.Message(err)
		h.AuditLog.PasswordChangeFailed(r.Context(), r, u.ID, msg)
		h.Log.Warn("password change rejected", zap.String("user_id", u.ID), zap.Error(err))
		h.render(w, r, msg)
		return
	}

	h.AuditLog.PasswordChanged(r.Context(), r, u.ID)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Password changed successfully.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// validatePasswordChange returns a validation error for the first problem
// found, or nil.
func validatePasswordChange(current, next, confirm string) error {
	switch {
	case current == "":
		return apiclient.Invalid("", "Please enter your current password")
	case next != confirm:
		return apiclient.Invalid("", "New passwords do not match")
	case len(next) < MinPasswordLen:
		return apiclient.Invalid("", "New password must be at least 8 characters")
	}
	return nil
}

// render shows the profile page. Account details come from /api/me and
// fall back to the session copy when that call fails.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, errMsg string) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		auth.RedirectToLogin(w, r)
		return
	}
	data := profileData{
		BaseVM:   viewdata.NewBaseVM(r, "Profile", "/dashboard"),
		FullName: u.Name,
		Email:    u.Email,
		Role:     roleLabel(u.Role),
		Clubs:    len(u.ClubIDs),
		Error:    errMsg,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load profile")
	defer cancel()
	me, err := auth.APIClient(r, h.API).Me(ctx)
	switch {
	case err == nil:
		data.FullName = me.DisplayName()
		data.Email = me.Email
		data.Role = roleLabel(me.Role)
		data.Clubs = len(me.AssignedClubIDs)
	case apiclient.IsUnauthorized(err):
		auth.RedirectToLogin(w, r)
		return
	default:
		h.Log.Warn("load profile", zap.Error(err))
	}

	templates.Render(w, r, "profile", data)
}

// roleLabel returns a human-readable label for a staff role.
func roleLabel(role string) string {
	switch role {
	case models.RoleAdmin:
		return "Administrator"
	case models.RoleClubManager:
		return "Club Manager"
	case models.RoleAllServices:
		return "All Services"
	case models.RoleRestaurant:
		return "Restaurant Staff"
	case models.RoleOffice:
		return "Office Staff"
	case models.RoleClasses:
		return "Classes Staff"
	default:
		return role
	}
}
