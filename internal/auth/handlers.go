package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/authcore/internal/config"
	"github.com/mrlokans/authcore/internal/entities"
)

// CookieOptions controls the cookies set by the controllers.
type CookieOptions struct {
	Name   string
	MaxAge int // seconds; 0 for a browser-session cookie
	Secure bool
}

func (o CookieOptions) set(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(o.Name, value, o.MaxAge, "/", "", o.Secure, true)
}

func (o CookieOptions) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(o.Name, "", -1, "/", "", o.Secure, true)
}

// EventLog receives the authentication audit trail.
type EventLog interface {
	LogAuth(ctx context.Context, userID, strategy string, action entities.AuthAction, ipAddr, userAgent string, err error)
}

// eventRecorder stamps events with the controller's strategy. A nil log
// records nothing.
type eventRecorder struct {
	log      EventLog
	strategy string
}

func (r eventRecorder) record(c *gin.Context, userID string, action entities.AuthAction, err error) {
	if r.log == nil {
		return
	}
	r.log.LogAuth(c.Request.Context(), userID, r.strategy, action, c.ClientIP(), c.Request.UserAgent(), err)
}

// AuthController serves the account routes backed by Service. Each user
// has at most one active session, stored on the user row.
type AuthController struct {
	service     *Service
	cookie      CookieOptions
	rateLimiter *RateLimiter
	events      eventRecorder
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, cfg config.Auth) *AuthController {
	return &AuthController{
		service: service,
		cookie: CookieOptions{
			Name:   cfg.ServiceCookie,
			Secure: cfg.SecureCookies,
		},
		rateLimiter: NewRateLimiter(RateLimitConfig{
			MaxAttempts:     cfg.MaxLoginAttempts,
			WindowDuration:  cfg.RateLimitWindow,
			LockoutDuration: cfg.LockoutDuration,
		}),
		events: eventRecorder{strategy: serviceStrategy},
	}
}

// WithEventLog records account events to log.
func (ac *AuthController) WithEventLog(log EventLog) *AuthController {
	ac.events.log = log
	return ac
}

// RegisterRoutes registers account routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", ac.Welcome)
	router.POST("/users", ac.Register)
	router.POST("/sessions", ac.Login)
	router.DELETE("/sessions", ac.Logout)
	router.GET("/profile", ac.Profile)
	router.POST("/reset_password", ac.ResetPasswordToken)
	router.PUT("/reset_password", ac.UpdatePassword)
}

func (ac *AuthController) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Bienvenue"})
}

// Register handles POST /users.
func (ac *AuthController) Register(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := ac.service.RegisterUser(c.Request.Context(), email, password)
	if err != nil {
		ac.events.record(c, "", entities.AuthActionRegister, err)
		switch {
		case errors.Is(err, ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "email already registered"})
		case errors.Is(err, ErrEmailRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "email missing"})
		case errors.Is(err, ErrPasswordRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "password missing"})
		case errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			slog.Error("failed to register user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create user"})
		}
		return
	}

	ac.events.record(c, user.ID, entities.AuthActionRegister, nil)
	c.JSON(http.StatusOK, gin.H{"email": email, "message": "user created"})
}

// Login handles POST /sessions.
func (ac *AuthController) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if ac.rateLimiter.abortIfLimited(c, email) {
		return
	}

	ok := ac.service.ValidLogin(c.Request.Context(), email, password)
	ac.rateLimiter.recordResult(c, email, ok)
	if !ok {
		ac.events.record(c, "", entities.AuthActionLogin, ErrInvalidCredentials)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	sessionID, ok := ac.service.CreateSession(c.Request.Context(), email)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create session"})
		return
	}

	var userID string
	if user, found := ac.service.GetUserFromSessionID(c.Request.Context(), sessionID); found {
		userID = user.ID
	}
	ac.events.record(c, userID, entities.AuthActionLogin, nil)

	ac.cookie.set(c, sessionID)
	c.JSON(http.StatusOK, gin.H{"email": email, "message": "logged in"})
}

// sessionUser resolves the service session cookie, aborting with 403
// when it is missing or unknown.
func (ac *AuthController) sessionUser(c *gin.Context) *entities.User {
	sessionID, _ := c.Cookie(ac.cookie.Name)
	user, ok := ac.service.GetUserFromSessionID(c.Request.Context(), sessionID)
	if !ok {
		c.AbortWithStatus(http.StatusForbidden)
		return nil
	}
	return user
}

// Logout handles DELETE /sessions.
func (ac *AuthController) Logout(c *gin.Context) {
	user := ac.sessionUser(c)
	if user == nil {
		return
	}
	ac.service.DestroySession(c.Request.Context(), user.ID)
	ac.events.record(c, user.ID, entities.AuthActionLogout, nil)
	ac.cookie.clear(c)
	c.Redirect(http.StatusFound, "/")
}

// Profile handles GET /profile.
func (ac *AuthController) Profile(c *gin.Context) {
	user := ac.sessionUser(c)
	if user == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": user.Email})
}

// ResetPasswordToken handles POST /reset_password.
func (ac *AuthController) ResetPasswordToken(c *gin.Context) {
	email := c.PostForm("email")

	token, err := ac.service.GetResetPasswordToken(c.Request.Context(), email)
	ac.events.record(c, "", entities.AuthActionResetIssue, err)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			slog.Error("failed to issue reset token", "error", err)
		}
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": email, "reset_token": token})
}

// UpdatePassword handles PUT /reset_password.
func (ac *AuthController) UpdatePassword(c *gin.Context) {
	email := c.PostForm("email")
	token := c.PostForm("reset_token")
	newPassword := c.PostForm("new_password")

	err := ac.service.UpdatePassword(c.Request.Context(), token, newPassword)
	ac.events.record(c, "", entities.AuthActionResetRedeem, err)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			c.AbortWithStatus(http.StatusForbidden)
		case errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			slog.Error("failed to update password", "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": email, "message": "Password updated"})
}

// SessionController serves login and logout for the session strategies
// under /api/v1.
type SessionController struct {
	strategy    *SessionAuth
	users       UserDirectory
	hasher      CredentialHasher
	cookie      CookieOptions
	rateLimiter *RateLimiter
	events      eventRecorder
}

// NewSessionController creates a controller issuing sessions from strategy.
func NewSessionController(strategy *SessionAuth, directory UserDirectory, hasher CredentialHasher, cfg config.Auth) *SessionController {
	cookie := CookieOptions{Name: strategy.CookieName(), Secure: cfg.SecureCookies}
	// A non-positive duration never expires; Max-Age<=0 would delete the cookie.
	if d := strategy.Duration(); d > 0 {
		cookie.MaxAge = int(d.Seconds())
	}

	return &SessionController{
		strategy:    strategy,
		users:       directory,
		hasher:      hasher,
		cookie:      cookie,
		rateLimiter: NewRateLimiter(RateLimitConfig{
			MaxAttempts:     cfg.MaxLoginAttempts,
			WindowDuration:  cfg.RateLimitWindow,
			LockoutDuration: cfg.LockoutDuration,
		}),
		events: eventRecorder{strategy: strategy.Name()},
	}
}

// WithEventLog records login and logout events to log.
func (sc *SessionController) WithEventLog(log EventLog) *SessionController {
	sc.events.log = log
	return sc
}

// RegisterRoutes registers the session routes on an /api/v1 group.
func (sc *SessionController) RegisterRoutes(router gin.IRoutes) {
	router.POST("/auth_session/login", sc.Login)
	router.DELETE("/auth_session/logout", sc.Logout)
}

// Login handles POST /api/v1/auth_session/login.
func (sc *SessionController) Login(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email missing"})
		return
	}
	password := c.PostForm("password")
	if password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password missing"})
		return
	}

	if sc.rateLimiter.abortIfLimited(c, email) {
		return
	}

	user, err := sc.users.FindOne(c.Request.Context(), map[string]any{"email": email})
	if err != nil {
		sc.events.record(c, "", entities.AuthActionLogin, ErrUserNotFound)
		c.JSON(http.StatusNotFound, gin.H{"error": "no user found for this email"})
		return
	}

	ok := sc.hasher.Verify(user.HashedPassword, password)
	recordLogin(ok)
	sc.rateLimiter.recordResult(c, email, ok)
	if !ok {
		sc.events.record(c, user.ID, entities.AuthActionLogin, ErrInvalidCredentials)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})
		return
	}

	sessionID, ok := sc.strategy.CreateSession(c.Request.Context(), user.ID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	sc.events.record(c, user.ID, entities.AuthActionLogin, nil)
	sc.cookie.set(c, sessionID)
	c.JSON(http.StatusOK, user)
}

// Logout handles DELETE /api/v1/auth_session/logout.
func (sc *SessionController) Logout(c *gin.Context) {
	userID, _ := sc.strategy.UserIDForSessionID(c.Request.Context(), sc.strategy.SessionCookie(c.Request))
	if !sc.strategy.DestroySession(c.Request) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	sc.events.record(c, userID, entities.AuthActionLogout, nil)
	sc.cookie.clear(c)
	c.JSON(http.StatusOK, gin.H{})
}
