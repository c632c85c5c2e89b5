package routes

import (
	"github.com/gin-gonic/gin"

	"geodata-upload-backend/services"
)

// SetupReportRoutes registers the liveness check, the upload endpoint and the
// stored-file route.
func SetupReportRoutes(router *gin.Engine, reportService *services.ReportService, files *services.FileStore, maxMemory int64) {
	router.GET("/", HandleIndex)
	router.POST("/upload", HandleUpload(reportService, maxMemory))
	router.GET("/static/uploads/:filename", HandleServeUpload(files))
}
