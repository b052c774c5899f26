// Package mimeext maps media types declared by player markup to file extensions.
package mimeext

import "strings"

const (
	// DefaultExt is the extension used when the media type is unknown or empty.
	DefaultExt = "mp4"

	// MimeVideoMP4 is the only media type the variant parser accepts.
	MimeVideoMP4 = "video/mp4"
	// MimeVideoWebM is recognised for placeholder names only.
	MimeVideoWebM = "video/webm"
	// MimeVideoMP2T is the transport stream type some players declare for fallbacks.
	MimeVideoMP2T = "video/mp2t"
)

var known = map[string]string{
	MimeVideoMP4:  DefaultExt,
	MimeVideoWebM: "webm",
	MimeVideoMP2T: "ts",
}

// ExtFromMime returns the extension (without dot) for mime. Parameters and
// case are ignored. Unknown types fall back to their subtype, then to mp4.
func ExtFromMime(mime string) string {
	base := strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	if base == "" {
		return DefaultExt
	}
	if ext, ok := known[base]; ok {
		return ext
	}
	if _, sub, ok := strings.Cut(base, "/"); ok && sub != "" && !strings.ContainsAny(sub, "/+.") {
		return sub
	}
	return DefaultExt
}
