package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AuthType selects the request authentication strategy for the /api/v1 routes.
type AuthType string

const (
	AuthTypeNone          AuthType = "none"             // No enforcement (default)
	AuthTypeBase          AuthType = "auth"             // Enforced, but no user ever resolves
	AuthTypeBasic         AuthType = "basic_auth"       // Authorization: Basic
	AuthTypeSession       AuthType = "session_auth"     // In-memory session map
	AuthTypeSessionExpiry AuthType = "session_exp_auth" // In-memory map with SESSION_DURATION
	AuthTypeSessionDB     AuthType = "session_db_auth"  // Expiring sessions mirrored to the database
)

// Cookie names used when the environment does not override them.
const (
	DefaultSessionName   = "_my_session_id"
	DefaultServiceCookie = "session_id"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Metrics
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Log struct {
		Level string // debug, info, warn, error
	}
	Metrics struct {
		Enabled bool
	}
	Auth struct {
		Type            AuthType
		SessionName     string        // Cookie carrying the strategy session id
		SessionDuration time.Duration // <= 0 disables expiry
		ServiceCookie   string        // Cookie carrying the single-session service id
		ExcludedPaths   []string      // Glob patterns exempt from enforcement
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
)

// defaultExcludedPaths mirrors the public endpoints of the /api/v1 group.
var defaultExcludedPaths = []string{
	"/api/v1/status/",
	"/api/v1/unauthorized/",
	"/api/v1/forbidden/",
	"/api/v1/auth_session/login/",
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_enabled", true)

	// Auth defaults
	v.SetDefault("auth_type", string(AuthTypeNone))
	v.SetDefault("session_name", DefaultSessionName)
	v.SetDefault("session_duration", 0) // seconds, 0 = never expires
	v.SetDefault("auth_service_cookie", DefaultServiceCookie)
	v.SetDefault("auth_excluded_paths", strings.Join(defaultExcludedPaths, ","))
	v.SetDefault("auth_bcrypt_cost", 12)          // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", false)    // Plain HTTP in development
	v.SetDefault("auth_max_login_attempts", 5)    // Max failed attempts
	v.SetDefault("auth_rate_limit_window", "15m") // Window for counting attempts
	v.SetDefault("auth_lockout_duration", "30m")  // Lockout duration

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Auth: Auth{
			Type:             AuthType(strings.ToLower(v.GetString("AUTH_TYPE"))),
			SessionName:      v.GetString("SESSION_NAME"),
			SessionDuration:  time.Duration(v.GetInt("SESSION_DURATION")) * time.Second,
			ServiceCookie:    v.GetString("AUTH_SERVICE_COOKIE"),
			ExcludedPaths:    splitList(v.GetString("AUTH_EXCLUDED_PATHS")),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
	}
}
