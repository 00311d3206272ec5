package http

import (
	"net/http"

	"github.com/mrlokans/authcore/internal/audit"
	"github.com/mrlokans/authcore/internal/auth"
	"github.com/mrlokans/authcore/internal/config"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database Pinger
	Users    auth.UserDirectory
	Counter  UserCounter
	Hasher   auth.CredentialHasher

	// Account routes; nil disables them
	AuthService *auth.Service

	// Audit trail; nil disables recording and /users/me/events
	Events *audit.Service

	// Strategy guarding /api/v1; nil disables enforcement
	Strategy   auth.Strategy
	AuthConfig config.Auth

	// Served on /metrics when set
	MetricsHandler http.Handler

	// Application info
	Version string
}
