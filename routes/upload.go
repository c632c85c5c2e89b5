package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"geodata-upload-backend/internal/logger"
	"geodata-upload-backend/middleware"
	"geodata-upload-backend/models"
	"geodata-upload-backend/services"
	"geodata-upload-backend/utils"
)

const (
	descriptionField = "description"
	imageField       = "image"
	audioField       = "audioData"
)

// HandleUpload accepts the report form and stores it.
func HandleUpload(reportService *services.ReportService, maxMemory int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := middleware.GetRequestID(c)
		logger.Info("Received a form submission", "request_id", requestID)

		input, err := parseReportForm(c.Request, maxMemory)
		if err != nil {
			logger.Error("Exception in upload", "request_id", requestID, "error", err)
			utils.RespondWithInternalError(c, err.Error())
			return
		}

		report, warnings, err := reportService.SubmitReport(c.Request.Context(), input)
		if err != nil {
			logger.Error("Exception in upload", "request_id", requestID, "error", err)
			utils.RespondWithInternalError(c, err.Error())
			return
		}

		c.JSON(http.StatusOK, models.ReportResponse{
			Message:  "Report submitted successfully",
			Data:     report,
			Warnings: warnings,
		})
	}
}

// parseReportForm reads the three optional fields. A body that is not multipart is
// read as an ordinary form, so a url-encoded description-only submission also works.
func parseReportForm(r *http.Request, maxMemory int64) (models.ReportInput, error) {
	var input models.ReportInput

	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return input, err
	}

	if values, ok := r.PostForm[descriptionField]; ok && len(values) > 0 {
		description := values[0]
		input.Description = &description
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File[imageField]; len(files) > 0 {
			input.Image = files[0]
		}
	}

	input.AudioData = r.PostFormValue(audioField)
	return input, nil
}
