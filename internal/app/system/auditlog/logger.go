// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-in, sign-out and password events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for record mutations made through the dashboard.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Sink persists audit events. *audit.Store satisfies it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to the sink (MongoDB) and to zap.
type Logger struct {
	store  Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.Resource != "" {
		fields = append(fields, zap.String("resource", event.Resource), zap.String("resource_id", event.ResourceID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// base fills request context and, when a staff member is signed in, the actor.
func base(r *http.Request, category, eventType string, success bool) audit.Event {
	ev := audit.Event{
		Category:  category,
		EventType: eventType,
		RequestID: middleware.GetReqID(r.Context()),
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
	if u, ok := auth.CurrentUser(r); ok {
		ev.ActorID = u.ID
		ev.ActorEmail = u.Email
		ev.ActorRole = u.Role
	}
	return ev
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, email, role string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	ev.UserID = userID
	ev.Details = map[string]string{"email": email, "role": role}
	l.Log(ctx, ev)
}

// LoginFailed logs a sign-in the API rejected.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailed, false)
	ev.FailureReason = reason
	ev.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, ev)
}

// LoginRateLimited logs a sign-in refused by the per-IP limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit, false)
	ev.FailureReason = "rate limited"
	ev.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, ev)
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	ev := base(r, audit.CategoryAuth, audit.EventLogout, true)
	ev.UserID = userID
	l.Log(ctx, ev)
}

// SessionExpired logs a session dropped because its API token expired.
func (l *Logger) SessionExpired(ctx context.Context, r *http.Request, userID string) {
	ev := base(r, audit.CategoryAuth, audit.EventSessionExpired, true)
	ev.UserID = userID
	l.Log(ctx, ev)
}

// PasswordChanged logs a successful password change.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID string) {
	ev := base(r, audit.CategoryAuth, audit.EventPasswordChanged, true)
	ev.UserID = userID
	l.Log(ctx, ev)
}

// PasswordChangeFailed logs a password change the API rejected.
func (l *Logger) PasswordChangeFailed(ctx context.Context, r *http.Request, userID, reason string) {
	ev := base(r, audit.CategoryAuth, audit.EventPasswordChangeFailed, false)
	ev.UserID = userID
	ev.FailureReason = reason
	l.Log(ctx, ev)
}

// --- Record Events ---

func (l *Logger) record(ctx context.Context, r *http.Request, eventType, resource, id, label string) {
	ev := base(r, audit.CategoryAdmin, eventType, true)
	ev.Resource = resource
	ev.ResourceID = id
	if label != "" {
		ev.Details = map[string]string{"label": label}
	}
	l.Log(ctx, ev)
}

// RecordCreated logs a record created through a form.
func (l *Logger) RecordCreated(ctx context.Context, r *http.Request, resource, id, label string) {
	l.record(ctx, r, audit.EventRecordCreated, resource, id, label)
}

// RecordUpdated logs a record edited through a form.
func (l *Logger) RecordUpdated(ctx context.Context, r *http.Request, resource, id, label string) {
	l.record(ctx, r, audit.EventRecordUpdated, resource, id, label)
}

// RecordDeleted logs a confirmed delete the API accepted.
func (l *Logger) RecordDeleted(ctx context.Context, r *http.Request, resource, id string) {
	l.record(ctx, r, audit.EventRecordDeleted, resource, id, "")
}

// DeleteFailed logs a confirmed delete the API rejected.
func (l *Logger) DeleteFailed(ctx context.Context, r *http.Request, resource, id, reason string) {
	ev := base(r, audit.CategoryAdmin, audit.EventDeleteFailed, false)
	ev.Resource = resource
	ev.ResourceID = id
	ev.FailureReason = reason
	l.Log(ctx, ev)
}

// MemberEnrolled logs a member added to a class.
func (l *Logger) MemberEnrolled(ctx context.Context, r *http.Request, classID, memberID string) {
	ev := base(r, audit.CategoryAdmin, audit.EventMemberEnrolled, true)
	ev.Resource = "classes"
	ev.ResourceID = classID
	ev.UserID = memberID
	l.Log(ctx, ev)
}

// MemberUnenrolled logs a member removed from a class.
func (l *Logger) MemberUnenrolled(ctx context.Context, r *http.Request, classID, memberID string) {
	ev := base(r, audit.CategoryAdmin, audit.EventMemberUnenrolled, true)
	ev.Resource = "classes"
	ev.ResourceID = classID
	ev.UserID = memberID
	l.Log(ctx, ev)
}

// MembersExported logs a spreadsheet export of the member list.
func (l *Logger) MembersExported(ctx context.Context, r *http.Request, rows int) {
	ev := base(r, audit.CategoryAdmin, audit.EventMembersExported, true)
	ev.Resource = "members"
	ev.Details = map[string]string{"rows": strconv.Itoa(rows)}
	l.Log(ctx, ev)
}
