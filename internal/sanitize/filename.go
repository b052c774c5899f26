// Package sanitize turns remote names into local file names that are safe to
// create inside the output directory.
package sanitize

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ytget/tnadl/internal/mimeext"
	"github.com/ytget/tnadl/types"
)

const (
	// MaxFilenameLength is the maximum allowed length for the filename base.
	MaxFilenameLength = 120
	// DefaultExt is the default extension used when none is provided.
	DefaultExt = mimeext.DefaultExt
	// DefaultName is the replacement name when the title is empty.
	DefaultName = "video"
	// PlaceholderName is the stem used when a media URL has no last segment.
	PlaceholderName = "video_downloaded"
)

var unsafeChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

// ToSafeFilename builds a cross-platform safe filename from title and extension (without dot in ext).
func ToSafeFilename(title, ext string) string {
	name := ToSafeName(title)
	if name == "" {
		name = DefaultName
	}
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		ext = DefaultExt
	}
	return filepath.Clean(name + "." + ext)
}

// ToSafeName NFC-normalizes s, replaces path-unsafe runs with "_" and caps
// the length. The result may be empty.
func ToSafeName(s string) string {
	name := norm.NFC.String(strings.TrimSpace(s))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if name == "." || name == ".." {
		name = strings.Repeat("_", len(name))
	}
	if len(name) > MaxFilenameLength {
		name = truncateUTF8(name, MaxFilenameLength)
	}
	return name
}

// DeriveFilename builds the output name for variant v of resource id.
//
// The last path segment of the media URL is percent-decoded and split at its
// last dot. Stem and extension are sanitized separately, so the length cap
// never eats the extension, and id is inserted between them: "clip.mp4" with
// id "12345" becomes "clip_12345.mp4". A name without an extension gets
// "_<id>" appended. A URL with no last segment yields the placeholder
// "video_downloaded.<ext>" with ext taken from the variant media type.
func DeriveFilename(v types.Variant, id string) string {
	stem, ext := sourceParts(v)
	return joinExt(stem+"_"+id, ext)
}

// SourceName is the sanitized remote file name of v, or the placeholder
// when the URL has none. It carries no resource ID.
func SourceName(v types.Variant) string {
	return joinExt(sourceParts(v))
}

func sourceParts(v types.Variant) (stem, ext string) {
	stem, ext = splitExt(lastSegment(v.URL))
	stem = ToSafeName(stem)
	if stem == "" {
		return PlaceholderName, mimeext.ExtFromMime(v.MediaType)
	}
	return stem, ToSafeName(ext)
}

// splitExt splits name at its last dot. A leading or trailing dot is part of
// the stem.
func splitExt(name string) (stem, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

func joinExt(stem, ext string) string {
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// lastSegment returns the percent-decoded final path element of raw, ignoring
// query and fragment. It returns "" when there is none.
func lastSegment(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.EscapedPath()
	} else if i := strings.IndexAny(raw, "?#"); i >= 0 {
		p = raw[:i]
	}
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	seg := path.Base(p)
	if seg == "/" || seg == "." {
		return ""
	}
	if dec, err := url.PathUnescape(seg); err == nil {
		seg = dec
	}
	return seg
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
