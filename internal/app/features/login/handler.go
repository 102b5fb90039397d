// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/store/sessions"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

type Handler struct {
	API        *apiclient.Client
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Sessions   *sessions.Store    // activity tracking; nil disables it
	Limiter    *ratelimit.Limiter // per-IP attempt budget; nil disables it
	Log        *zap.Logger
}

func NewHandler(
	api *apiclient.Client,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	sessStore *sessions.Store,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Sessions:   sessStore,
		Limiter:    limiter,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

const (
	msgMissing     = "Please enter your email and password."
	msgRateLimited = "Too many sign-in attempts. Please wait a minute and try again."
	msgRejected    = "Invalid email or password."
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, destination(ret), http.StatusSeeOther)
		return
	}
	h.render(w, r, "", "", ret)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.PostFormValue("email")))
	password := r.PostFormValue("password")
	ret := strings.TrimSpace(r.PostFormValue("return"))

	ip := ratelimit.ClientIP(r)
	if h.Limiter != nil && !h.Limiter.Allow(ip) {
		h.Log.Warn("login rate limited", zap.String("ip", ip), zap.String("email", email))
		h.AuditLog.LoginRateLimited(r.Context(), r, email)
		h.render(w, r, msgRateLimited, email, ret)
		return
	}

	if email == "" || password == "" {
		h.render(w, r, msgMissing, email, ret)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	resp, err := h.API.Login(ctx, email, password)
	if err != nil {
		h.loginFailed(w, r, email, ret, err)
		return
	}

	u := auth.SessionUser{
		ID:      resp.User.ID,
		Name:    resp.User.DisplayName(),
		Email:   resp.User.Email,
		Role:    resp.User.Role,
		ClubIDs: resp.User.AssignedClubIDs,
		Token:   resp.Token,
	}
	u.ActivityID = h.startActivity(ctx, r, resp.User, ip)

	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Unable to sign you in. Please try again.", "/login")
		return
	}
	if h.Limiter != nil {
		h.Limiter.Reset(ip)
	}

	h.AuditLog.LoginSuccess(r.Context(), r, u.ID, u.Email, u.Role)
	h.Log.Info("staff signed in", zap.String("user_id", u.ID), zap.String("role", u.Role))

	http.Redirect(w, r, destination(ret), http.StatusSeeOther)
}

// loginFailed re-renders the form. Credential rejections show the API's
// message; an unreachable server keeps the client's transport message.
func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, email, ret string, err error) {
	msg := apiclient.Message(err)
	var status int
	var re *apiclient.RequestError
	if errors.As(err, &re) {
		status = re.Status
	}
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg == "" {
			msg = msgRejected
		}
		h.AuditLog.LoginFailed(r.Context(), r, email, msg)
	default:
		h.Log.Warn("login request failed", zap.String("email", email), zap.Error(err))
		if msg == "" {
			msg = "Unable to reach the club server. Please try again."
		}
	}
	h.render(w, r, msg, email, ret)
}

// startActivity records an activity session and returns its hex id, or ""
// when tracking is off or the write failed.
func (h *Handler) startActivity(ctx context.Context, r *http.Request, u models.User, ip string) string {
	if h.Sessions == nil {
		return ""
	}
	s, err := h.Sessions.Create(ctx, u.ID, u.Email, u.Role, ip, r.UserAgent())
	if err != nil {
		h.Log.Warn("failed to create activity session", zap.Error(err), zap.String("user_id", u.ID))
		return ""
	}
	return s.ID.Hex()
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, errMsg, email, ret string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:     errMsg,
		Email:     email,
		ReturnURL: ret,
	})
}

// destination keeps same-site return targets and falls back to the
// dashboard for anything else.
func destination(ret string) string {
	return urlutil.SafeReturn(ret, "", "/dashboard")
}
