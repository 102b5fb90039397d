// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs a handler failure and renders the matching error page.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	return fields
}

// LogServerError logs at Error and renders a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg, e.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs at Warn and renders a 400 page with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, e.fields(r, err)...)
	render(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

// LogAPIError handles a failed club API call: 401 sends the user to sign
// in again, 404 renders not found, anything else renders a 502 page
// carrying the API's own message.
func (e *ErrorLogger) LogAPIError(w http.ResponseWriter, r *http.Request, msg string, err error, backURL string) {
	switch {
	case apiclient.IsUnauthorized(err):
		e.log.Info(msg, e.fields(r, err)...)
		RenderUnauthorized(w, r, "/login")
	case apiclient.IsNotFound(err):
		e.log.Info(msg, e.fields(r, err)...)
		RenderNotFound(w, r, apiclient.Message(err), backURL)
	default:
		e.log.Warn(msg, e.fields(r, err)...)
		render(w, r, http.StatusBadGateway, "Club server error", apiclient.Message(err), backURL)
	}
}
