package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"geodata-upload-backend/internal/logger"
	"geodata-upload-backend/internal/telemetry"
	"geodata-upload-backend/models"
	"geodata-upload-backend/utils"
)

// ReportService turns an upload form into stored files plus one report document.
type ReportService struct {
	files             *FileStore
	store             ReportStore
	allowedExtensions []string
	metrics           *telemetry.Metrics
	now               func() time.Time
}

func NewReportService(files *FileStore, store ReportStore, allowedExtensions []string, metrics *telemetry.Metrics) *ReportService {
	return &ReportService{
		files:             files,
		store:             store,
		allowedExtensions: allowedExtensions,
		metrics:           metrics,
		now:               time.Now,
	}
}

// SubmitReport stores the image and audio attached to input and inserts the report.
// A disallowed image or an unusable audio clip is dropped and described in the
// returned warnings; everything else that fails is returned as an error. Files are
// written before the insert and are not removed if the insert fails.
func (s *ReportService) SubmitReport(ctx context.Context, input models.ReportInput) (*models.Report, []string, error) {
	ctx, span := otel.Tracer(telemetry.ServiceName).Start(ctx, "ReportService.SubmitReport")
	defer span.End()

	var warnings []string

	if err := s.files.EnsureDir(); err != nil {
		return nil, nil, err
	}

	report := &models.Report{
		Description: input.Description,
		Geotags:     map[string]any{},
	}

	if input.Image != nil && input.Image.Filename != "" {
		if utils.HasAllowedExtension(input.Image.Filename, s.allowedExtensions) {
			name, size, err := s.files.SaveImage(input.Image)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to store image: %w", err)
			}
			report.ImagePath = &name
			s.metrics.RecordFileStored("image", size)
			span.SetAttributes(attribute.String("report.image_path", name))
		} else {
			logger.Warn("Skipping image with disallowed extension",
				"filename", input.Image.Filename,
				"extension", utils.FileExtension(input.Image.Filename))
			s.metrics.RecordSkipped("image", "extension")
			warnings = append(warnings, fmt.Sprintf("image %q skipped: file type not allowed", input.Image.Filename))
		}
	}

	if input.AudioData != "" {
		name, err := s.saveAudio(input.AudioData)
		if err != nil {
			logger.Error("Error saving audio file", "error", err)
			s.metrics.RecordSkipped("audio", "decode_or_write")
			warnings = append(warnings, fmt.Sprintf("audio skipped: %v", err))
		} else {
			report.AudioPath = &name
			span.SetAttributes(attribute.String("report.audio_path", name))
		}
	}

	report.Timestamp = s.now().UTC()

	if err := s.store.InsertReport(ctx, report); err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	s.metrics.RecordReport(report.ImagePath != nil, report.AudioPath != nil)
	span.SetAttributes(attribute.String("report.id", report.ID.Hex()))
	logger.Info("Successfully stored report", "report_id", report.ID.Hex())

	return report, warnings, nil
}

func (s *ReportService) saveAudio(dataURI string) (string, error) {
	data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	name, err := s.files.SaveAudio(data)
	if err != nil {
		return "", err
	}
	s.metrics.RecordFileStored("audio", int64(len(data)))
	return name, nil
}
