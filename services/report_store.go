package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"geodata-upload-backend/internal/logger"
	"geodata-upload-backend/internal/telemetry"
	"geodata-upload-backend/models"
)

// errCallerGone marks an insert that failed because the request context ended. It is
// not a store failure and does not count toward opening the breaker.
var errCallerGone = errors.New("request ended before insert completed")

// ReportStore persists upload records.
type ReportStore interface {
	InsertReport(ctx context.Context, report *models.Report) error
}

// MongoReportStore inserts reports into a MongoDB collection. Inserts go through a
// circuit breaker so that an unreachable server fails requests fast instead of making
// each one wait for server selection.
type MongoReportStore struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
	timeout    time.Duration
	metrics    *telemetry.Metrics
}

func NewMongoReportStore(db *mongo.Database, collection string, timeout time.Duration, metrics *telemetry.Metrics) *MongoReportStore {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "MongoDB",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.RecordCircuitBreakerState(name, to.String())
		},
	})

	return &MongoReportStore{
		collection: db.Collection(collection),
		breaker:    breaker,
		timeout:    timeout,
		metrics:    metrics,
	}
}

// InsertReport inserts report and sets report.ID to the identifier the driver assigned.
func (s *MongoReportStore) InsertReport(ctx context.Context, report *models.Report) error {
	insertCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.breaker.Execute(func() (interface{}, error) {
		res, err := s.collection.InsertOne(insertCtx, report)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w: %w", errCallerGone, ctx.Err(), err)
		}
		return res, err
	})
	s.metrics.RecordDatabaseOperation("insert_one", s.collection.Name(), err == nil)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	if id, ok := result.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID); ok {
		report.ID = id
	}
	return nil
}
