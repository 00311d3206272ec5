package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/authcore/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.AuthConfig.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	health := NewHealthController(cfg.Strategy, cfg.Version).
		AddCheck("database", PingCheck(cfg.Database))
	router.GET("/health", health.Status)
	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	// Avoid storing a typed nil in the interface.
	var events auth.EventLog
	var eventLister EventLister
	if cfg.Events != nil {
		events = cfg.Events
		eventLister = cfg.Events
	}

	// Account routes with one session per user
	if cfg.AuthService != nil {
		auth.NewAuthController(cfg.AuthService, cfg.AuthConfig).WithEventLog(events).RegisterRoutes(router)
	}

	// Strategy-guarded API
	api := router.Group("/api/v1")
	api.Use(auth.NewMiddleware(cfg.Strategy, cfg.AuthConfig.ExcludedPaths).Handler())
	NewAPIController(cfg.Counter, eventLister).RegisterRoutes(api)

	if sessionAuth, ok := cfg.Strategy.(*auth.SessionAuth); ok {
		auth.NewSessionController(sessionAuth, cfg.Users, cfg.Hasher, cfg.AuthConfig).WithEventLog(events).RegisterRoutes(api)
	}

	return router
}
