package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"geodata-upload-backend/internal/logger"
	"geodata-upload-backend/internal/telemetry"
)

// PostTimestampLayout is the format of the timestamp field in the posts fixture.
const PostTimestampLayout = "2006-01-02T15:04:05Z"

var ErrMissingTimestamp = errors.New("post has no timestamp field")

// PopulateResult describes what a Populate call did.
type PopulateResult struct {
	Skipped  bool // collection already had documents
	Existing int64
	Inserted int
}

// FixtureLoader seeds the social media posts collection from a JSON fixture file.
// It only writes to an empty collection; two loaders racing on the same empty
// collection can both insert.
type FixtureLoader struct {
	collection *mongo.Collection
	timeout    time.Duration
	metrics    *telemetry.Metrics
}

func NewFixtureLoader(db *mongo.Database, collection string, timeout time.Duration, metrics *telemetry.Metrics) *FixtureLoader {
	return &FixtureLoader{
		collection: db.Collection(collection),
		timeout:    timeout,
		metrics:    metrics,
	}
}

// Populate loads the fixture at path when the collection is empty. The whole file is
// parsed before anything is inserted, so a bad element aborts the batch.
func (l *FixtureLoader) Populate(ctx context.Context, path string) (*PopulateResult, error) {
	countCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	logger.Info("Checking if collection is empty", "collection", l.collection.Name())
	count, err := l.collection.CountDocuments(countCtx, bson.D{})
	l.metrics.RecordDatabaseOperation("count_documents", l.collection.Name(), err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	if count > 0 {
		logger.Info("Collection already contains data, skipping population",
			"collection", l.collection.Name(), "documents", count)
		return &PopulateResult{Skipped: true, Existing: count}, nil
	}

	posts, err := ReadFixturePosts(path)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		logger.Warn("Fixture file contains no posts", "path", path)
		return &PopulateResult{}, nil
	}

	insertCtx, cancelInsert := context.WithTimeout(ctx, l.timeout)
	defer cancelInsert()

	result, err := l.collection.InsertMany(insertCtx, posts)
	l.metrics.RecordDatabaseOperation("insert_many", l.collection.Name(), err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to insert posts: %w", err)
	}

	logger.Info("Social media data successfully populated",
		"collection", l.collection.Name(), "inserted", len(result.InsertedIDs))
	return &PopulateResult{Inserted: len(result.InsertedIDs)}, nil
}

// ReadFixturePosts reads and parses the fixture file at path.
func ReadFixturePosts(path string) ([]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %q: %w", path, err)
	}
	return ParseFixturePosts(data)
}

// ParseFixturePosts parses a JSON array of post objects. Each object keeps its field
// order; its "timestamp" string is replaced by the parsed UTC time so it is stored as
// a BSON datetime.
func ParseFixturePosts(data []byte) ([]interface{}, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fixture must be a JSON array of objects: %w", err)
	}

	posts := make([]interface{}, 0, len(raw))
	for i, element := range raw {
		var post bson.D
		if err := bson.UnmarshalExtJSON(element, false, &post); err != nil {
			return nil, fmt.Errorf("post %d: invalid object: %w", i, err)
		}
		if err := convertTimestamp(post); err != nil {
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func convertTimestamp(post bson.D) error {
	for i, field := range post {
		if field.Key != "timestamp" {
			continue
		}
		value, ok := field.Value.(string)
		if !ok {
			return fmt.Errorf("timestamp must be a string, got %T", field.Value)
		}
		ts, err := time.Parse(PostTimestampLayout, value)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
		post[i].Value = ts.UTC()
		return nil
	}
	return ErrMissingTimestamp
}
