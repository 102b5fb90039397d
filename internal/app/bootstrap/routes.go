// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"
	"time"

	auditlogfeature "github.com/dalemusser/clubhub/internal/app/features/auditlog"
	classesfeature "github.com/dalemusser/clubhub/internal/app/features/classes"
	clubsfeature "github.com/dalemusser/clubhub/internal/app/features/clubs"
	dashboardfeature "github.com/dalemusser/clubhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/clubhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/clubhub/internal/app/features/health"
	heartbeatfeature "github.com/dalemusser/clubhub/internal/app/features/heartbeat"
	homefeature "github.com/dalemusser/clubhub/internal/app/features/home"
	instructorsfeature "github.com/dalemusser/clubhub/internal/app/features/instructors"
	loginfeature "github.com/dalemusser/clubhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/clubhub/internal/app/features/logout"
	membersfeature "github.com/dalemusser/clubhub/internal/app/features/members"
	officesfeature "github.com/dalemusser/clubhub/internal/app/features/offices"
	profilefeature "github.com/dalemusser/clubhub/internal/app/features/profile"
	restaurantsfeature "github.com/dalemusser/clubhub/internal/app/features/restaurants"
	auditstore "github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/store/sessions"
	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// cleanupInterval is how often idle activity sessions are closed and the
// login limiter is swept.
const cleanupInterval = time.Minute

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// ClubHub boots the template engine, builds the club API client, the
// session manager and the audit logger, starts the activity cleanup
// worker, applies request id, CSRF, session and flash middleware, and
// mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	api, err := apiclient.New(appCfg.APIBaseURL, appCfg.APITimeout, logger)
	if err != nil {
		logger.Error("club api client init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	db := deps.ClubHubMongoDatabase
	sessStore := sessions.New(db)
	auditEvents := auditstore.New(db)
	audit := auditlog.New(auditEvents, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	sessionMgr.OnExpired(expiredSessionHook(sessStore, audit, logger))

	limiter := ratelimit.New(appCfg.LoginRatePerMinute)
	startCleanup(workers.NewSessionCleanup(sessStore, logger, cleanupInterval, appCfg.SessionIdleTimeout, limiter))

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	// CSRF protection for every form post and the heartbeat.
	csrfKey := sha256.Sum256([]byte(appCfg.SessionKey))
	if !secure {
		r.Use(markPlaintext)
	}
	r.Use(csrf.Protect(csrfKey[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(errorsfeature.NewHandler().Forbidden)),
	))

	// Global auth middleware: loads SessionUser into context if logged in,
	// then moves pending flashes into the request.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(sessionMgr.LoadFlashes)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ClubHubMongoClient, api, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(api, sessionMgr, errLog, audit, sessStore, limiter, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, audit, sessStore, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	profileHandler := profilefeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	heartbeatHandler := heartbeatfeature.NewHandler(sessStore, sessionMgr, logger)
	r.Mount("/heartbeat", heartbeatfeature.Routes(heartbeatHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	dashboardHandler := dashboardfeature.NewHandler(api, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Club resources
	membersHandler := membersfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	classesHandler := classesfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/classes", classesfeature.Routes(classesHandler, sessionMgr))

	instructorsHandler := instructorsfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/instructors", instructorsfeature.Routes(instructorsHandler, sessionMgr))

	clubsHandler := clubsfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/clubs", clubsfeature.Routes(clubsHandler, sessionMgr))

	restaurantsHandler := restaurantsfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/restaurants", restaurantsfeature.Routes(restaurantsHandler, sessionMgr))

	officesHandler := officesfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/offices", officesfeature.Routes(officesHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(auditEvents, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}

// markPlaintext tells gorilla/csrf the request arrived over plain HTTP so
// local development skips the TLS-only referer check.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// expiredSessionHook closes the activity session of a user whose API token
// expired and records the sign-out.
func expiredSessionHook(store *sessions.Store, audit *auditlog.Logger, logger *zap.Logger) func(r *http.Request, u auth.SessionUser) {
	return func(r *http.Request, u auth.SessionUser) {
		audit.SessionExpired(r.Context(), r, u.ID)
		id, err := primitive.ObjectIDFromHex(u.ActivityID)
		if err != nil {
			return
		}
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), logger, "close expired activity session")
		defer cancel()
		if err := store.Close(ctx, id, sessions.EndExpired); err != nil {
			logger.Warn("close expired activity session", zap.Error(err), zap.String("user_id", u.ID))
		}
	}
}
