package routes

import (
	"os"

	"github.com/gin-gonic/gin"

	"geodata-upload-backend/services"
	"geodata-upload-backend/utils"
)

// HandleServeUpload serves a stored image or audio file by its generated name.
func HandleServeUpload(files *services.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := c.Param("filename")

		filePath, err := files.Path(filename)
		if err != nil {
			utils.RespondWithNotFound(c, "File not found")
			return
		}

		info, err := os.Stat(filePath)
		if err != nil || info.IsDir() {
			utils.RespondWithNotFound(c, "File not found")
			return
		}

		c.Header("Content-Type", utils.ContentTypeFor(filename))
		c.Header("Cache-Control", "public, max-age=31536000") // names are never reused
		c.File(filePath)
	}
}
