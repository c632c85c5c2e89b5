package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when MONGO_URI is missing")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("ALLOWED_EXTENSIONS", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("MONGO_TIMEOUT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.DBName != "geodata_db" {
		t.Fatalf("unexpected db name: %s", cfg.DBName)
	}
	if cfg.UploadsCollection != "uploads" || cfg.PostsCollection != "social_media_posts" {
		t.Fatalf("unexpected collections: %s, %s", cfg.UploadsCollection, cfg.PostsCollection)
	}
	if cfg.UploadDir != "static/uploads" {
		t.Fatalf("unexpected upload dir: %s", cfg.UploadDir)
	}
	if cfg.MongoTimeout != 10*time.Second {
		t.Fatalf("unexpected mongo timeout: %v", cfg.MongoTimeout)
	}
	want := []string{"png", "jpg", "jpeg", "gif"}
	if !reflect.DeepEqual(cfg.AllowedExtensions, want) {
		t.Fatalf("expected %v, got %v", want, cfg.AllowedExtensions)
	}
}

func TestLoadConfigNormalizesExtensions(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("ALLOWED_EXTENSIONS", " PNG, .webp,,gif ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	want := []string{"png", "webp", "gif"}
	if !reflect.DeepEqual(cfg.AllowedExtensions, want) {
		t.Fatalf("expected %v, got %v", want, cfg.AllowedExtensions)
	}
}

func TestNewRedisClientDisabledWithoutURL(t *testing.T) {
	rdb, err := NewRedisClient(&Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rdb != nil {
		t.Fatalf("expected nil client when REDIS_URL is unset")
	}
}
