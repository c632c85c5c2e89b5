package utils

import (
	"net/http"

	"geodata-upload-backend/models"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, "not_found", message, nil)
}

// RespondWithInternalError sends the 500 body clients of /upload expect:
// {"error": "Internal server error", "details": "<cause>"}.
func RespondWithInternalError(c *gin.Context, details string) {
	c.JSON(http.StatusInternalServerError, models.ErrorBody{
		Error:   "Internal server error",
		Details: details,
	})
}
