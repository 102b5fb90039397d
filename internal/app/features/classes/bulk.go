// internal/app/features/classes/bulk.go
package classes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

const noneSelected = "Select at least one class to delete."

// selectedIDs returns the non-blank "id" values of the query or form.
func selectedIDs(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func countNoun(n int) string {
	if n == 1 {
		return "1 class"
	}
	return fmt.Sprintf("%d classes", n)
}

// ServeBulkConfirm handles GET /classes/delete?id=..&id=.., the question
// asked before deleting the checked classes.
func (h *Handler) ServeBulkConfirm(w http.ResponseWriter, r *http.Request) {
	ids := selectedIDs(r.URL.Query()["id"])
	if len(ids) == 0 {
		h.SM.AddFlash(w, r, auth.FlashError, noneSelected)
		http.Redirect(w, r, "/classes", http.StatusSeeOther)
		return
	}
	data := listpage.ConfirmData{
		BaseVM:    viewdata.NewBaseVM(r, "Delete Classes", "/classes"),
		Prompt:    fmt.Sprintf("Are you sure you want to delete %s?", countNoun(len(ids))),
		ActionURL: "/classes/delete",
		CancelURL: "/classes",
	}
	for _, id := range ids {
		data.Hidden = append(data.Hidden, listpage.HiddenField{Name: "id", Value: id})
	}
	templates.Render(w, r, "confirm_delete", data)
}

// HandleBulkDelete handles POST /classes/delete. All checked classes are
// deleted behind the one posted confirmation.
func (h *Handler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse bulk delete form", err, "Invalid form submission.", "/classes")
		return
	}
	ids := selectedIDs(r.PostForm["id"])
	if len(ids) == 0 {
		h.SM.AddFlash(w, r, auth.FlashError, noneSelected)
		http.Redirect(w, r, "/classes", http.StatusSeeOther)
		return
	}
	answer := r.PostFormValue("confirm") == "yes"

	ctl := listctl.New(listctl.Classes,
		source(auth.APIClient(r, h.API)),
		classID,
		listctl.ConfirmFunc(func(string) bool { return answer }),
		h.SM.Notifier(w, r),
		listctl.WithLogger(h.Log),
	)
	defer ctl.Dispose()

	if err := listpage.Load(r.Context(), ctl, h.Log); err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		http.Redirect(w, r, "/classes", http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "bulk delete classes")
	defer cancel()

	removed, err := ctl.RemoveMany(ctx, ids)
	if err != nil && !errors.Is(err, apiclient.ErrMutation) {
		// Declined, or a class already gone; the notifier has spoken.
		http.Redirect(w, r, "/classes", http.StatusSeeOther)
		return
	}

	left := map[string]bool{}
	for _, c := range ctl.State().Items {
		left[c.ID] = true
	}
	for _, id := range ids {
		if left[id] {
			h.AuditLog.DeleteFailed(r.Context(), r, "classes", id, apiclient.Message(err))
		} else {
			h.AuditLog.RecordDeleted(r.Context(), r, "classes", id)
		}
	}
	if removed > 0 {
		h.SM.AddFlash(w, r, auth.FlashSuccess, fmt.Sprintf("Deleted %s.", countNoun(removed)))
	}
	http.Redirect(w, r, "/classes", http.StatusSeeOther)
}
