// Package videoid extracts the numeric resource identifier from page URLs.
package videoid

import (
	"fmt"
	"regexp"

	"github.com/ytget/tnadl/errs"
)

var videoIDRe = regexp.MustCompile(`video(\d+)`)

// Extract returns the digit run that immediately follows the first literal
// "video" marker in rawURL. The match is case-sensitive and may occur anywhere
// in the string, including the query.
func Extract(rawURL string) (string, error) {
	m := videoIDRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", fmt.Errorf("%w: video ID not found in %q (expects something like '...video12345...')", errs.ErrMalformedInput, rawURL)
	}
	return m[1], nil
}
