package videoid

import (
	"errors"
	"testing"

	"github.com/ytget/tnadl/errs"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.tnaflix.com/amateur-porn/some-title/video12345", "12345"},
		{"https://www.tnaflix.com/cat/title/video7", "7"},
		{"https://www.tnaflix.com/video9876543?from=home", "9876543"},
		{"https://example.com/watch?id=video42&t=10", "42"},
		{"video001", "001"},
		// first marker wins
		{"https://example.com/video11/related/video22", "11"},
		// a marker without digits is skipped in favour of a later valid one
		{"https://example.com/videos/video33", "33"},
	}
	for _, tc := range cases {
		got, err := Extract(tc.url)
		if err != nil {
			t.Fatalf("%s -> error: %v (want %s)", tc.url, err, tc.want)
		}
		if got != tc.want {
			t.Fatalf("%s -> got %s (want %s)", tc.url, got, tc.want)
		}
	}
}

func TestExtract_Invalid(t *testing.T) {
	cases := []string{
		"",
		"https://www.tnaflix.com/",
		"https://www.tnaflix.com/videos/latest",
		"https://www.tnaflix.com/Video12345",
		"https://www.tnaflix.com/VIDEO12345",
		"not a url",
		"12345",
	}
	for _, u := range cases {
		got, err := Extract(u)
		if got != "" || err == nil {
			t.Fatalf("%s -> got=%q err=%v; want empty id and error", u, got, err)
		}
		if !errors.Is(err, errs.ErrMalformedInput) {
			t.Fatalf("%s -> error %v should wrap ErrMalformedInput", u, err)
		}
	}
}
