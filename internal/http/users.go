package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/authcore/internal/auth"
	"github.com/mrlokans/authcore/internal/entities"
)

// UserCounter reports the number of registered users.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// EventLister pages through the authentication audit trail.
type EventLister interface {
	GetEvents(ctx context.Context, userID string, limit, offset int) ([]entities.AuthEvent, int64, error)
}

// APIController serves the public and user routes of /api/v1.
type APIController struct {
	counter UserCounter
	events  EventLister
}

// NewAPIController creates a new APIController. A nil events disables
// /users/me/events.
func NewAPIController(counter UserCounter, events EventLister) *APIController {
	return &APIController{counter: counter, events: events}
}

// RegisterRoutes registers the routes on an /api/v1 group.
func (ac *APIController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/status", ac.Status)
	router.GET("/stats", ac.Stats)
	router.GET("/unauthorized", ac.Unauthorized)
	router.GET("/forbidden", ac.Forbidden)
	router.GET("/users/me", ac.Me)
	if ac.events != nil {
		router.GET("/users/me/events", ac.MyEvents)
	}
}

func (ac *APIController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Stats returns the number of users.
func (ac *APIController) Stats(c *gin.Context) {
	if ac.counter == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	count, err := ac.counter.Count(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "count users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": count})
}

func (ac *APIController) Unauthorized(c *gin.Context) {
	respondError(c, http.StatusUnauthorized, "Unauthorized")
}

func (ac *APIController) Forbidden(c *gin.Context) {
	respondError(c, http.StatusForbidden, "Forbidden")
}

// Me returns the authenticated user.
func (ac *APIController) Me(c *gin.Context) {
	user := auth.GetCurrentUser(c)
	if user == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, user)
}

// MyEvents returns the authenticated user's audit trail, most recent
// first. Query: limit, offset.
func (ac *APIController) MyEvents(c *gin.Context) {
	user := auth.GetCurrentUser(c)
	if user == nil {
		respondNotFound(c)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid offset")
		return
	}

	events, total, err := ac.events.GetEvents(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "total": total})
}
