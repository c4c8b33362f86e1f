package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable conflict kinds, so clients can branch on them instead of
// matching message text.
const (
	CodeAlreadyBooked = "already_booked"
	CodeEmailTaken    = "email_taken"
)

// Every response carries a boolean "success" and a human-readable "message".
// Successful responses place resources under a resource-named key ("event",
// "events", "registration", "user", ...); failures may add "code" and
// field-level "errors".

// OK sends a 200 envelope with an optional resource payload.
func OK(c *gin.Context, message string, payload gin.H) {
	c.JSON(http.StatusOK, envelope(true, message, payload))
}

// Created sends a 201 envelope with an optional resource payload.
func Created(c *gin.Context, message string, payload gin.H) {
	c.JSON(http.StatusCreated, envelope(true, message, payload))
}

// BadRequest sends 400.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope(false, message, nil))
}

// ValidationFailed sends 400 with the names of the offending fields.
func ValidationFailed(c *gin.Context, message string, fields []string) {
	c.JSON(http.StatusBadRequest, envelope(false, message, gin.H{"errors": fields}))
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, envelope(false, message, nil))
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, envelope(false, message, nil))
}

// NotFound sends 404.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, envelope(false, message, nil))
}

// Conflict sends 409 with a machine-readable code.
func Conflict(c *gin.Context, code, message string) {
	c.JSON(http.StatusConflict, envelope(false, message, gin.H{"code": code}))
}

// ServiceUnavailable sends 503.
func ServiceUnavailable(c *gin.Context, message string) {
	c.JSON(http.StatusServiceUnavailable, envelope(false, message, nil))
}

// Internal sends 500 with a generic message; storage internals never leak here.
func Internal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, envelope(false, message, nil))
}

func envelope(success bool, message string, payload gin.H) gin.H {
	body := gin.H{"success": success, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	return body
}
