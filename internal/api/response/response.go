// Package response defines the JSON envelopes and error rendering shared
// by all REST handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes carried in error envelopes
const (
	CodeValidation   = "validation_error"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeRateLimited  = "rate_limited"
	CodeInternal     = "internal_error"
)

// OK writes a 200 response with the payload
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created writes a 201 response with the payload
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// NoContent writes an empty 204 response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Message writes a 200 response with a plain message envelope
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func fail(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": msg}})
}

// BadRequest writes a 400 validation error
func BadRequest(c *gin.Context, msg string) {
	fail(c, http.StatusBadRequest, CodeValidation, msg)
}

// Unauthorized writes a 401 error
func Unauthorized(c *gin.Context, msg string) {
	fail(c, http.StatusUnauthorized, CodeUnauthorized, msg)
}

// Forbidden writes a 403 error
func Forbidden(c *gin.Context, msg string) {
	fail(c, http.StatusForbidden, CodeForbidden, msg)
}

// NotFound writes a 404 error
func NotFound(c *gin.Context, msg string) {
	fail(c, http.StatusNotFound, CodeNotFound, msg)
}

// Conflict writes a 409 error
func Conflict(c *gin.Context, msg string) {
	fail(c, http.StatusConflict, CodeConflict, msg)
}

// TooManyRequests writes a 429 error
func TooManyRequests(c *gin.Context, msg string) {
	fail(c, http.StatusTooManyRequests, CodeRateLimited, msg)
}

// Internal writes a 500 error; internals are never echoed to clients
func Internal(c *gin.Context) {
	fail(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}
