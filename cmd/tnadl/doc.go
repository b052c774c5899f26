// Command tnadl lists and downloads the quality variants of a video page.
//
//	tnadl [flags] <page-url>
//
// Without flags the highest variant is downloaded into the current
// directory, continuing a partial file left by an earlier run. -F prints the
// variant table instead; -f picks a quality such as 720p.
//
// Exit status is 0 on success, 2 for usage errors and URLs without a video
// ID, and 1 for every other failure.
package main
