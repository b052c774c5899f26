// Package tnadl resolves a video page URL into its downloadable quality
// variants and transfers the chosen one to disk.
//
// The pipeline runs in fixed order: the numeric ID is extracted from the
// page URL, the ajax player endpoint is queried for the markup fragment,
// <source> tags are parsed into a ranked variant list, one variant is
// selected, an output filename is derived and the media is transferred.
//
// Features:
//   - Quality selection by size, label substring or a JavaScript hook
//   - Resumable transfers that continue an existing partial file
//   - Progress callbacks and structured logging per run
package tnadl
