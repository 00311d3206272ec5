package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for auth metrics.
const (
	ResultOK       = "ok"
	ResultFailure  = "failure"
	ResultMissing  = "missing"
	ResultExpired  = "expired"
	ResultError    = "error"
	ResultRejected = "rejected"
)

// Stage labels for the password reset flow.
const (
	StageIssue  = "issue"
	StageRedeem = "redeem"
)

// Logins counts password checks by result.
var Logins = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authcore_logins_total",
		Help: "Total number of password checks",
	},
	[]string{"result"},
)

// SessionsCreated counts issued session ids per strategy.
var SessionsCreated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authcore_sessions_created_total",
		Help: "Total number of sessions created",
	},
	[]string{"strategy"},
)

// SessionResolutions counts session id lookups per strategy and outcome.
var SessionResolutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authcore_session_resolutions_total",
		Help: "Total number of session id lookups",
	},
	[]string{"strategy", "result"},
)

// PasswordResets counts reset token issues and redemptions.
var PasswordResets = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authcore_password_resets_total",
		Help: "Total number of password reset operations",
	},
	[]string{"stage", "result"},
)

// RegisterMetrics registers auth metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Logins)
	reg.MustRegister(SessionsCreated)
	reg.MustRegister(SessionResolutions)
	reg.MustRegister(PasswordResets)
}

func recordLogin(ok bool) {
	if ok {
		Logins.WithLabelValues(ResultOK).Inc()
		return
	}
	Logins.WithLabelValues(ResultFailure).Inc()
}

func recordSessionCreated(strategy string) {
	SessionsCreated.WithLabelValues(strategy).Inc()
}

func recordSessionResolution(strategy, result string) {
	SessionResolutions.WithLabelValues(strategy, result).Inc()
}

func recordPasswordReset(stage, result string) {
	PasswordResets.WithLabelValues(stage, result).Inc()
}
