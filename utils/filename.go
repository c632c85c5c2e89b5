package utils

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename turns a client supplied filename into one that is safe to join onto
// the upload directory. The result never contains a path separator and never starts
// or ends with '.' or '_'. It may be empty.
func SanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range decomposed {
		switch {
		case r == '/' || r == '\\':
			b.WriteByte(' ')
		case r < 0x80:
			b.WriteRune(r)
		}
	}

	cleaned := strings.Join(strings.Fields(b.String()), "_")
	cleaned = unsafeFilenameChars.ReplaceAllString(cleaned, "")
	return strings.Trim(cleaned, "._")
}
