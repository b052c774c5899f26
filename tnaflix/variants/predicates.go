package variants

import (
	"strings"

	"github.com/ytget/tnadl/internal/mimeext"
)

// isDigits reports whether s is a non-empty run of ASCII decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// baseMediaType strips MIME parameters and lower-cases the result.
func baseMediaType(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}

// acceptMediaType reports whether a declared source type is a progressive MP4.
func acceptMediaType(mime string) bool {
	return baseMediaType(mime) == mimeext.MimeVideoMP4
}

// qualityContains is the case-insensitive label test used by substring selection.
func qualityContains(quality, needle string) bool {
	return strings.Contains(strings.ToLower(quality), strings.ToLower(needle))
}
