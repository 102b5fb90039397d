// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/store/sessions"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Sessions   *sessions.Store
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, sessStore *sessions.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Sessions:   sessStore,
	}
}

// HandleLogout handles POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.closeActivity(r, u.ActivityID)
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	// HTMX: force a full client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) closeActivity(r *http.Request, hexID string) {
	if h.Sessions == nil || hexID == "" {
		return
	}
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		h.Log.Warn("logout: bad activity id", zap.String("activity_id", hexID))
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "close activity session")
	defer cancel()
	if err := h.Sessions.Close(ctx, id, sessions.EndLogout); err != nil && !sessions.IsNotFound(err) {
		h.Log.Warn("logout: close activity session", zap.Error(err))
	}
}
