package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/authcore/internal/auth"
	"github.com/mrlokans/authcore/internal/config"
)

const healthCheckTimeout = 2 * time.Second

type HealthResponse struct {
	Status   string            `json:"status"`
	Time     string            `json:"time"`
	Version  string            `json:"version,omitempty"`
	Strategy string            `json:"strategy"`
	Checks   map[string]string `json:"checks"`
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping() error
}

// HealthCheck checks one dependency. A nil error means reachable.
type HealthCheck func(ctx context.Context) error

// PingCheck adapts p. A nil p yields a nil check, reported as not configured.
func PingCheck(p Pinger) HealthCheck {
	if p == nil {
		return nil
	}
	return func(context.Context) error { return p.Ping() }
}

// HealthController reports the named dependency checks and the active
// authentication strategy.
type HealthController struct {
	checks   map[string]HealthCheck
	strategy string
	version  string
}

func NewHealthController(strategy auth.Strategy, version string) *HealthController {
	name := string(config.AuthTypeNone)
	if strategy != nil {
		name = strategy.Name()
	}
	return &HealthController{
		checks:   make(map[string]HealthCheck),
		strategy: name,
		version:  version,
	}
}

// AddCheck registers check under name, replacing any previous one.
func (h *HealthController) AddCheck(name string, check HealthCheck) *HealthController {
	h.checks[name] = check
	return h
}

func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		check := h.checks[name]
		if check == nil {
			checks[name] = "not configured"
			continue
		}
		if err := check(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	health := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().Format(time.RFC3339),
		Version:  h.version,
		Strategy: h.strategy,
		Checks:   checks,
	}

	statusCode := http.StatusOK
	if !healthy {
		health.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
