package middleware

import (
	"fmt"

	"geodata-upload-backend/internal/logger"
	"geodata-upload-backend/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in a handler into the standard 500 body instead of an empty
// response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Recovered from panic",
			"request_id", GetRequestID(c),
			"path", c.Request.URL.Path,
			"panic", recovered)
		utils.RespondWithInternalError(c, fmt.Sprint(recovered))
		c.Abort()
	})
}
