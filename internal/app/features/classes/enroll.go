// internal/app/features/classes/enroll.go
package classes

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleEnroll handles POST /classes/{id}/enroll. Each posted member_id
// is enrolled in turn; the API wait-lists members once the class is full.
// The first rejection stops the run.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := "/classes/" + id
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse enroll form", err, "Invalid form submission.", back)
		return
	}
	ids := selectedIDs(r.PostForm["member_id"])
	if len(ids) == 0 {
		h.SM.AddFlash(w, r, auth.FlashError, "Please select at least one member to enroll.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	api := auth.APIClient(r, h.API)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "enroll members")
	defer cancel()

	done := 0
	for _, memberID := range ids {
		if err := api.Enroll(ctx, id, memberID); err != nil {
			if apiclient.IsUnauthorized(err) {
				auth.RedirectToLogin(w, r)
				return
			}
			h.Log.Warn("enroll failed", zap.String("class_id", id), zap.String("member_id", memberID), zap.Error(err))
			h.SM.AddFlash(w, r, auth.FlashError, "Failed to enroll member: "+apiclient.Message(err))
			break
		}
		h.AuditLog.MemberEnrolled(r.Context(), r, id, memberID)
		done++
	}
	if done > 0 {
		h.SM.AddFlash(w, r, auth.FlashSuccess, h.enrolledMessage(r, id, ids[:done]))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// enrolledMessage says how many of ids got a seat and how many were
// wait-listed, reading the class back from the API.
func (h *Handler) enrolledMessage(r *http.Request, classID string, ids []string) string {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "class detail after enroll")
	defer cancel()

	c, err := auth.APIClient(r, h.API).ClassDetails(ctx, classID)
	if err != nil {
		return fmt.Sprintf("Enrolled %s.", memberCount(len(ids)))
	}
	waiting := map[string]bool{}
	for _, m := range c.WaitList {
		waiting[m] = true
	}
	queued := 0
	for _, id := range ids {
		if waiting[id] {
			queued++
		}
	}
	switch {
	case queued == 0:
		return fmt.Sprintf("Enrolled %s.", memberCount(len(ids)))
	case queued == len(ids):
		return fmt.Sprintf("Class is full; added %s to the wait list.", memberCount(queued))
	}
	return fmt.Sprintf("Enrolled %s; added %s to the wait list.", memberCount(len(ids)-queued), memberCount(queued))
}

func memberCount(n int) string {
	if n == 1 {
		return "1 member"
	}
	return fmt.Sprintf("%d members", n)
}

// ServeUnenrollConfirm handles GET /classes/{id}/unenroll/{memberID}.
func (h *Handler) ServeUnenrollConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	memberID := chi.URLParam(r, "memberID")
	data := listpage.ConfirmData{
		BaseVM:    viewdata.NewBaseVM(r, "Remove Member", "/classes/"+id),
		Prompt:    "Are you sure you want to remove this member from the class?",
		ActionURL: "/classes/" + id + "/unenroll/" + memberID,
		CancelURL: "/classes/" + id,
		Button:    "Remove",
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "member for unenroll")
	defer cancel()
	if m, err := auth.APIClient(r, h.API).Members().Get(ctx, memberID); err == nil {
		data.Label = m.FullName()
	}
	templates.Render(w, r, "confirm_delete", data)
}

// HandleUnenroll handles POST /classes/{id}/unenroll/{memberID}. Nothing
// is sent to the API unless the posted confirm answer is "yes".
func (h *Handler) HandleUnenroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	memberID := chi.URLParam(r, "memberID")
	back := "/classes/" + id
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse unenroll form", err, "Invalid form submission.", back)
		return
	}
	if r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "unenroll member")
	defer cancel()

	if err := auth.APIClient(r, h.API).Unenroll(ctx, id, memberID); err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.Log.Warn("unenroll failed", zap.String("class_id", id), zap.String("member_id", memberID), zap.Error(err))
		h.SM.AddFlash(w, r, auth.FlashError, "Failed to unenroll member: "+apiclient.Message(err))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	h.AuditLog.MemberUnenrolled(r.Context(), r, id, memberID)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Member removed from class.")
	http.Redirect(w, r, back, http.StatusSeeOther)
}
