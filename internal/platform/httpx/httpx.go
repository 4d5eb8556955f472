// Package httpx holds the JSON envelope used by the gin handlers.
package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
)

// OK writes 200 {success: true, ...payload}.
func OK(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusOK, envelope(payload))
}

// Created writes 201 {success: true, ...payload}.
func Created(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusCreated, envelope(payload))
}

// Error writes {error: msg} with the status of err's kind. Classified errors carry their own
// message; backend failures are logged and answered with fallback.
func Error(c *gin.Context, err error, fallback string) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error(c.Request.Method+" "+c.FullPath()+": "+fallback, err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// BadRequest writes 400 {error: msg}.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func envelope(payload gin.H) gin.H {
	out := gin.H{"success": true}
	for k, v := range payload {
		out[k] = v
	}
	return out
}
