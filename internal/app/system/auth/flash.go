// internal/app/system/auth/flash.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Flash levels.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Level   string
	Message string
}

const flashesCtxKey ctxKey = "flashes"

// AddFlash queues a message for the next page the browser renders.
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, level, msg string) {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Warn("flash: session unavailable", zap.Error(err))
		return
	}
	sess.AddFlash(level + "|" + msg)
	if err := sess.Save(r, w); err != nil {
		m.log.Warn("flash: save session", zap.Error(err))
	}
}

// LoadFlashes pops queued flashes on HTML GET requests and makes them
// available through Flashes(r).
func (m *SessionManager) LoadFlashes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !wantsHTML(r) {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := m.GetSession(r)
		if err != nil || sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		raw := sess.Flashes()
		if len(raw) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		if err := sess.Save(r, w); err != nil {
			m.log.Warn("flash: save session", zap.Error(err))
		}
		out := make([]Flash, 0, len(raw))
		for _, v := range raw {
			s, ok := v.(string)
			if !ok {
				continue
			}
			level, msg, found := strings.Cut(s, "|")
			if !found {
				level, msg = FlashSuccess, s
			}
			out = append(out, Flash{Level: level, Message: msg})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), flashesCtxKey, out)))
	})
}

// Flashes returns the messages popped by LoadFlashes for this request.
func Flashes(r *http.Request) []Flash {
	f, _ := r.Context().Value(flashesCtxKey).([]Flash)
	return f
}

// FlashNotifier reports failures as error flashes. It satisfies
// listctl.Notifier for handlers that redirect after acting.
type FlashNotifier struct {
	m *SessionManager
	w http.ResponseWriter
	r *http.Request
}

// Notifier returns a FlashNotifier bound to one request.
func (m *SessionManager) Notifier(w http.ResponseWriter, r *http.Request) FlashNotifier {
	return FlashNotifier{m: m, w: w, r: r}
}

func (n FlashNotifier) NotifyError(msg string) {
	n.m.AddFlash(n.w, n.r, FlashError, msg)
}
