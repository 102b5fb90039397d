// internal/app/features/heartbeat/handler.go
package heartbeat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/store/sessions"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ActivityStore is the part of sessions.Store the heartbeat needs.
type ActivityStore interface {
	Touch(ctx context.Context, id primitive.ObjectID, page string) (bool, error)
	Create(ctx context.Context, userID, email, role, ip, userAgent string) (sessions.Session, error)
}

// Handler handles heartbeat requests for activity tracking.
type Handler struct {
	Sessions   ActivityStore
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

// NewHandler creates a new heartbeat handler.
func NewHandler(sessStore ActivityStore, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions:   sessStore,
		SessionMgr: sessionMgr,
		Log:        logger,
	}
}

// heartbeatRequest is the JSON body for the heartbeat endpoint.
type heartbeatRequest struct {
	Page string `json:"page"`
}

// ServeHeartbeat handles POST /heartbeat. It refreshes the signed-in
// user's activity session; one closed for inactivity is replaced by a new
// session whose id is written back to the cookie. Failures are logged and
// the response is always 204.
func (h *Handler) ServeHeartbeat(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok || h.Sessions == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req heartbeatRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // page is optional
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "heartbeat")
	defer cancel()

	if oid, err := primitive.ObjectIDFromHex(u.ActivityID); err == nil {
		touched, err := h.Sessions.Touch(ctx, oid, req.Page)
		if err != nil {
			h.Log.Warn("failed to update session last_active_at",
				zap.Error(err),
				zap.String("session_id", u.ActivityID))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if touched {
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	newSess, err := h.Sessions.Create(ctx, u.ID, u.Email, u.Role, ratelimit.ClientIP(r), r.UserAgent())
	if err != nil {
		h.Log.Warn("failed to create activity session after timeout",
			zap.Error(err),
			zap.String("user_id", u.ID))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	renewed := *u
	renewed.ActivityID = newSess.ID.Hex()
	if err := h.SessionMgr.SignIn(w, r, renewed); err != nil {
		h.Log.Warn("failed to save session with new activity id", zap.Error(err))
	}
	h.Log.Info("created new activity session after inactivity",
		zap.String("user_id", u.ID),
		zap.String("new_session_id", renewed.ActivityID))

	w.WriteHeader(http.StatusNoContent)
}
