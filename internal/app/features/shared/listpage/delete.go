package listpage

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Deleter wires the confirm page and the confirmed delete POST for one kind.
type Deleter[T any] struct {
	Kind     listctl.Kind
	Resource string // audit resource name, e.g. "members"
	ListURL  string // where the browser lands afterwards, e.g. "/members"

	API    *apiclient.Client
	Source func(c *apiclient.Client) listctl.Source[T]
	IDOf   func(T) string
	// Label names the record on the confirm page. Optional.
	Label func(ctx context.Context, c *apiclient.Client, id string) (string, error)

	SM     *auth.SessionManager
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

// ConfirmData is the view model of the shared "confirm_delete" page.
// Hidden fields are posted back with the answer; Button defaults to "Delete".
type ConfirmData struct {
	viewdata.BaseVM
	Prompt    string
	Label     string
	ActionURL string
	CancelURL string
	Button    string
	Hidden    []HiddenField
}

type HiddenField struct {
	Name  string
	Value string
}

// ConfirmPrompt is the question shown before deleting one record of kind.
func ConfirmPrompt(kind listctl.Kind) string {
	return "Are you sure you want to delete this " + kind.Singular + "?"
}

// ServeConfirm handles GET /<kind>/{id}/delete.
func (d *Deleter[T]) ServeConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data := ConfirmData{
		BaseVM:    viewdata.NewBaseVM(r, "Delete "+Capitalize(d.Kind.Singular), d.ListURL),
		Prompt:    ConfirmPrompt(d.Kind),
		ActionURL: d.ListURL + "/" + id + "/delete",
		CancelURL: d.ListURL,
	}
	if d.Label != nil {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), d.Log, "confirm label")
		defer cancel()
		label, err := d.Label(ctx, auth.APIClient(r, d.API), id)
		if err != nil {
			d.ErrLog.LogAPIError(w, r, "load record for delete", err, d.ListURL)
			return
		}
		data.Label = label
	}
	templates.Render(w, r, "confirm_delete", data)
}

// HandleDelete handles POST /<kind>/{id}/delete. The posted confirm field
// answers the controller's confirmation; anything but "yes" declines.
// The outcome is flashed and the browser is sent back to the list.
func (d *Deleter[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		d.ErrLog.LogBadRequest(w, r, "parse delete form", err, "Invalid form submission.", d.ListURL)
		return
	}
	answer := r.PostFormValue("confirm") == "yes"

	ctl := listctl.New(d.Kind,
		d.Source(auth.APIClient(r, d.API)),
		d.IDOf,
		listctl.ConfirmFunc(func(string) bool { return answer }),
		d.SM.Notifier(w, r),
		listctl.WithLogger(d.Log),
	)
	defer ctl.Dispose()

	if err := Load(r.Context(), ctl, d.Log); err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		http.Redirect(w, r, d.ListURL, http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), d.Log, "delete "+d.Kind.Singular)
	defer cancel()

	err := ctl.Remove(ctx, id)
	switch {
	case err == nil:
		d.Audit.RecordDeleted(r.Context(), r, d.Resource, id)
		d.SM.AddFlash(w, r, auth.FlashSuccess, Capitalize(d.Kind.Singular)+" deleted.")
	case errors.Is(err, listctl.ErrDeclined):
		// Declined: nothing happened and nothing to report.
	case errors.Is(err, apiclient.ErrMutation):
		d.Audit.DeleteFailed(r.Context(), r, d.Resource, id, apiclient.Message(err))
	}
	http.Redirect(w, r, d.ListURL, http.StatusSeeOther)
}
