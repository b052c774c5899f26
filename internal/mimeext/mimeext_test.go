package mimeext

import "testing"

func TestExtFromMime(t *testing.T) {
	cases := map[string]string{
		"video/mp4":                  "mp4",
		"VIDEO/MP4":                  "mp4",
		"video/webm":                 "webm",
		"video/MP2T":                 "ts",
		"video/quicktime":            "quicktime",
		"application/vnd.apple.mpeg": "mp4",
		"video/":                     "mp4",
		"garbage":                    "mp4",
		"":                           "mp4",
		"video/mp4; codecs=\"avc1\"": "mp4",
	}
	for in, want := range cases {
		if got := ExtFromMime(in); got != want {
			t.Fatalf("%q -> %q (want %q)", in, got, want)
		}
	}
}
