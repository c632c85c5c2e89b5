package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureDirIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "static", "uploads")
	store := NewFileStore(dir)

	for i := 0; i < 2; i++ {
		if err := store.EnsureDir(); err != nil {
			t.Fatalf("EnsureDir call %d returned error: %v", i, err)
		}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected upload directory to exist: %v", err)
	}
}

func TestSaveImageUsesUniqueSanitizedNames(t *testing.T) {
	store := newTestFileStore(t)
	header := buildFileHeader(t, "image", "river flood.png", []byte("png-bytes"))

	first, size, err := store.SaveImage(header)
	if err != nil {
		t.Fatalf("SaveImage returned error: %v", err)
	}
	second, _, err := store.SaveImage(header)
	if err != nil {
		t.Fatalf("SaveImage returned error: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct names, got %s twice", first)
	}
	if !strings.HasSuffix(first, "_river_flood.png") {
		t.Fatalf("unexpected name: %s", first)
	}
	if size != int64(len("png-bytes")) {
		t.Fatalf("unexpected size: %d", size)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), first))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestSaveAudioWritesBytes(t *testing.T) {
	store := newTestFileStore(t)
	payload := []byte{0x1a, 0x45, 0xdf, 0xa3, 0x00, 0xff}

	name, err := store.SaveAudio(payload)
	if err != nil {
		t.Fatalf("SaveAudio returned error: %v", err)
	}
	if !strings.HasPrefix(name, "audio_") || !strings.HasSuffix(name, ".webm") {
		t.Fatalf("unexpected audio name: %s", name)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("stored audio missing: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("audio bytes differ: %v != %v", data, payload)
	}
}

func TestSaveAudioFailsWithoutDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"))

	if _, err := store.SaveAudio([]byte("x")); err == nil {
		t.Fatalf("expected error when directory does not exist")
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	store := NewFileStore("/srv/uploads")

	for _, name := range []string{"", ".", "..", "../secret", "a/b.png", `a\b.png`} {
		if _, err := store.Path(name); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("Path(%q) expected ErrInvalidFilename, got %v", name, err)
		}
	}

	path, err := store.Path("audio_1.webm")
	if err != nil {
		t.Fatalf("Path returned error: %v", err)
	}
	if path != filepath.Join("/srv/uploads", "audio_1.webm") {
		t.Fatalf("unexpected path: %s", path)
	}
}

func TestDecodeDataURI(t *testing.T) {
	data, err := DecodeDataURI("data:audio/webm;codecs=opus;base64,aGVsbG8sIHdvcmxk")
	if err != nil {
		t.Fatalf("DecodeDataURI returned error: %v", err)
	}
	if string(data) != "hello, world" {
		t.Fatalf("unexpected payload: %q", data)
	}

	if _, err := DecodeDataURI("aGVsbG8="); !errors.Is(err, ErrMalformedDataURI) {
		t.Fatalf("expected ErrMalformedDataURI, got %v", err)
	}
	if _, err := DecodeDataURI("data:audio/webm;base64,@@not-base64@@"); err == nil {
		t.Fatalf("expected base64 error")
	}
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "uploads"))
	if err := store.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	return store
}

func buildFileHeader(t *testing.T, fieldName, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("CreateFormFile error: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(int64(len(content)) + 1024); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}

	return req.MultipartForm.File[fieldName][0]
}
