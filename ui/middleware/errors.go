package middleware

import (
	"log"
	"net/http"

	"inflationdash/internal/errors"

	"github.com/gin-gonic/gin"
)

// StatusFor maps an application error code onto an HTTP status
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidSelection:
		return http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NoRoute answers unmatched paths with the same JSON error shape as handlers
func NoRoute(c *gin.Context) {
	Abort(c, errors.NotFound("route "+c.Request.URL.Path))
}

// Abort stops the handler chain with a JSON error body
func Abort(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[Server] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
