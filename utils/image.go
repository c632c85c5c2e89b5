package utils

import (
	"path/filepath"
	"strings"
)

// FileExtension returns the lower-cased text after the last dot of filename, or ""
// when there is no dot.
func FileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// HasAllowedExtension reports whether filename ends in one of the allowed extensions.
// The comparison is case-insensitive; allowed entries are expected in lower case.
func HasAllowedExtension(filename string, allowed []string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}
	ext := FileExtension(filename)
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// ContentTypeFor returns the MIME type served for a stored upload.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
