package utils

import (
	"log"
	"net/http"
	"os"

	"recruitment-portal-api/services"

	"github.com/gin-gonic/gin"
)

// OK writes the standard success envelope.
func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Created writes the success envelope with a 201 status.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// BadRequest writes a validation failure envelope.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
	})
}

// Fail writes a failure envelope with the given status and optional
// structured errors payload.
func Fail(c *gin.Context, status int, message string, errs any) {
	body := gin.H{
		"success": false,
		"message": message,
	}
	if errs != nil {
		body["errors"] = errs
	}
	c.JSON(status, body)
}

// Error maps a service error to the response envelope. AppErrors carry
// their own status and detail; anything else is an internal failure,
// logged with context and hidden from clients in production.
func Error(c *gin.Context, err error) {
	if appErr, ok := services.AsAppError(err); ok {
		Fail(c, appErr.HTTPStatus(), appErr.Message, appErr.Details)
		return
	}

	log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	message := "Internal server error"
	if os.Getenv("ENVIRONMENT") != "production" {
		message = err.Error()
	}
	Fail(c, http.StatusInternalServerError, message, nil)
}
