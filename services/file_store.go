package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"geodata-upload-backend/utils"
)

var (
	ErrMalformedDataURI = errors.New("malformed data URI: missing ',' separator")
	ErrInvalidFilename  = errors.New("invalid filename")
)

// FileStore writes uploaded images and audio clips into a single flat directory.
// Every name it hands out starts with a fresh uuid, so concurrent writers never collide.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Dir() string {
	return s.dir
}

// EnsureDir creates the upload directory if it does not exist yet.
func (s *FileStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// SaveImage stores an uploaded file as "<uuid>_<sanitized original name>" and returns
// the generated name and the number of bytes written.
func (s *FileStore) SaveImage(file *multipart.FileHeader) (string, int64, error) {
	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s_%s", uuid.NewString(), utils.SanitizeFilename(file.Filename))
	written, err := s.write(name, src)
	if err != nil {
		return "", 0, err
	}
	return name, written, nil
}

// SaveAudio stores decoded audio bytes as "audio_<uuid>.webm".
func (s *FileStore) SaveAudio(data []byte) (string, error) {
	name := fmt.Sprintf("audio_%s.webm", uuid.NewString())
	if _, err := s.write(name, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return name, nil
}

// Path resolves a stored file name to its location on disk. Names that could escape
// the upload directory are rejected.
func (s *FileStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.dir, name), nil
}

func (s *FileStore) write(name string, r io.Reader) (int64, error) {
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(dst, r)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path) // Clean up on error
		return 0, fmt.Errorf("failed to save file: %w", err)
	}
	return written, nil
}

// DecodeDataURI splits "<header>,<payload>" on the first comma and decodes the payload
// as standard base64. The header is not inspected.
func DecodeDataURI(uri string) ([]byte, error) {
	_, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, ErrMalformedDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return data, nil
}
