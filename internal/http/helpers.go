package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body of the /api/v1 routes.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "Not found")
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	slog.Error("internal error", "context", context, "error", err)
	respondError(c, http.StatusInternalServerError, "internal server error")
}
