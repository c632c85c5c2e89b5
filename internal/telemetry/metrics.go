package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter      metric.Int64Counter
	RequestDuration     metric.Float64Histogram
	ReportsCreated      metric.Int64Counter
	FilesStored         metric.Int64Counter
	UploadsSkipped      metric.Int64Counter
	CircuitBreakerState metric.Int64Counter
	DatabaseOperations  metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(ServiceName)

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	reportsCreated, err := meter.Int64Counter(
		"reports.created",
		metric.WithDescription("Upload records inserted"),
	)
	if err != nil {
		return nil, err
	}

	filesStored, err := meter.Int64Counter(
		"uploads.files.stored",
		metric.WithDescription("Files written to the upload directory"),
	)
	if err != nil {
		return nil, err
	}

	uploadsSkipped, err := meter.Int64Counter(
		"uploads.skipped",
		metric.WithDescription("Image or audio parts dropped from a request"),
	)
	if err != nil {
		return nil, err
	}

	circuitBreakerState, err := meter.Int64Counter(
		"circuit_breaker.state_changes",
		metric.WithDescription("Circuit breaker state changes"),
	)
	if err != nil {
		return nil, err
	}

	databaseOperations, err := meter.Int64Counter(
		"database.operations.total",
		metric.WithDescription("Total database operations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:      requestCounter,
		RequestDuration:     requestDuration,
		ReportsCreated:      reportsCreated,
		FilesStored:         filesStored,
		UploadsSkipped:      uploadsSkipped,
		CircuitBreakerState: circuitBreakerState,
		DatabaseOperations:  databaseOperations,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordReport records an inserted upload record and which attachments it carried.
func (m *Metrics) RecordReport(hasImage, hasAudio bool) {
	if m == nil {
		return
	}
	m.ReportsCreated.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Bool("report.has_image", hasImage),
		attribute.Bool("report.has_audio", hasAudio),
	))
}

// RecordFileStored records a file written to disk. kind is "image" or "audio".
func (m *Metrics) RecordFileStored(kind string, size int64) {
	if m == nil {
		return
	}
	m.FilesStored.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("file.kind", kind),
		attribute.Int64("file.size", size),
	))
}

// RecordSkipped records an attachment that was dropped from a request.
func (m *Metrics) RecordSkipped(kind, reason string) {
	if m == nil {
		return
	}
	m.UploadsSkipped.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("file.kind", kind),
		attribute.String("skip.reason", reason),
	))
}

// RecordCircuitBreakerState records circuit breaker state changes
func (m *Metrics) RecordCircuitBreakerState(service, state string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("service", service),
		attribute.String("state", state),
	}

	m.CircuitBreakerState.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordDatabaseOperation records database operation metrics
func (m *Metrics) RecordDatabaseOperation(operation, collection string, success bool) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.collection", collection),
		attribute.Bool("db.success", success),
	}

	m.DatabaseOperations.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
