package models

import (
	"mime/multipart"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is one submission to POST /upload. Optional fields are pointers so that a
// missing value is stored and returned as null rather than an empty string.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Description   *string            `bson:"description" json:"description"`
	ImagePath     *string            `bson:"image_path" json:"image_path"`
	AudioPath     *string            `bson:"audio_path" json:"audio_path"`
	Geotags       map[string]any     `bson:"geotags" json:"geotags"`               // reserved, always empty
	ExtractedText *string            `bson:"extracted_text" json:"extracted_text"` // reserved, always null
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}

// ReportInput carries the parsed form fields of an upload request.
type ReportInput struct {
	Description *string
	Image       *multipart.FileHeader
	AudioData   string
}

// ReportResponse is the body returned for a stored report.
type ReportResponse struct {
	Message  string   `json:"message"`
	Data     *Report  `json:"data"`
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorBody is the body returned when an upload fails.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
