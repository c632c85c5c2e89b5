package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleIndex is the liveness check.
func HandleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Geodata upload backend is running"})
}
