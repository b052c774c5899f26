// Package variants turns the player markup fragment into an ordered list of
// downloadable variants and picks one of them according to a Criterion.
//
// Parsing accepts <source> tags with their attributes in any order and keeps
// only tags carrying both a src and a numeric size. The result is sorted by
// size, highest first, and is never modified afterwards.
//
// Selection supports the default highest variant, the legacy second-highest
// policy, the lowest variant, an exact size with a label-substring fallback,
// a bare label substring, and a user-provided Chooser.
package variants
