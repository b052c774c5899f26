package variants

import "testing"

func TestIsDigits(t *testing.T) {
	cases := map[string]bool{
		"":     false,
		"0":    true,
		"720":  true,
		"720p": false,
		"+720": false,
		"-1":   false,
		" 1":   false,
	}
	for in, want := range cases {
		if got := isDigits(in); got != want {
			t.Errorf("isDigits(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAcceptMediaType(t *testing.T) {
	cases := map[string]bool{
		"video/mp4":                true,
		"VIDEO/MP4":                true,
		" video/mp4 ; codecs=\"a\"": true,
		"video/webm":               false,
		"application/x-mpegURL":    false,
		"":                         false,
	}
	for in, want := range cases {
		if got := acceptMediaType(in); got != want {
			t.Errorf("acceptMediaType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestQualityContains(t *testing.T) {
	if !qualityContains("720p", "720P") {
		t.Error("match should ignore case")
	}
	if qualityContains("480p", "720") {
		t.Error("480p does not contain 720")
	}
	if !qualityContains("480p", "") {
		t.Error("empty needle matches everything")
	}
}
