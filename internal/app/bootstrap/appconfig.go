// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries what is specific to the club dashboard: where the
// club API lives, the Mongo database that keeps activity sessions and the
// audit trail, and the cookie session settings.
type AppConfig struct {
	// Club REST API
	APIBaseURL string        // e.g. http://localhost:8080
	APITimeout time.Duration // per-request timeout; also scales system/timeouts

	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey         string        // Secret key for signing session cookies (must be strong in production)
	SessionName        string        // Cookie name for sessions (default: clubhub-session)
	SessionDomain      string        // Cookie domain (blank means current host)
	SessionMaxAge      time.Duration // cookie lifetime
	SessionIdleTimeout time.Duration // activity sessions idle this long are closed

	// Sign-in throttling
	LoginRatePerMinute int

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string
}
