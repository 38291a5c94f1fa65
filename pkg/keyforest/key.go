// Package keyforest implements Solo's key formatter and lexer forest
// (spec §4.A): parsing flat dotted keys into a tree of internal/leaf/
// array-index nodes, and projecting that tree to and from nested objects
// and flat key/value maps.
package keyforest

import (
	"regexp"
	"strconv"
	"strings"
)

// Separator is the canonical key segment separator.
const Separator = "."

var arraySegment = regexp.MustCompile(`^\d+$`)

// Normalize lowercases a key and leaves the canonical "." separator intact.
// Callers supplying alternative separators (environment-variable style "_"
// or SCREAMING_SNAKE) must convert through NormalizeFrom first.
func Normalize(key string) string {
	return strings.ToLower(key)
}

// NormalizeFrom converts a key using altSep (e.g. "_") into the canonical
// dotted, lowercase form.
func NormalizeFrom(key, altSep string) string {
	if altSep == "" || altSep == Separator {
		return Normalize(key)
	}
	return Normalize(strings.ReplaceAll(key, altSep, Separator))
}

// Split breaks a normalized dotted key into its segments.
func Split(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(Normalize(key), Separator)
}

// Join reassembles segments into a dotted key. join(split(k)) == k for any
// key already in canonical form.
func Join(segments []string) string {
	return strings.Join(segments, Separator)
}

// IsArraySegment reports whether a path segment denotes an array index.
func IsArraySegment(segment string) bool {
	return arraySegment.MatchString(segment)
}

// ParseIndex parses an array-index segment. ok is false if segment is not
// an array index.
func ParseIndex(segment string) (idx int, ok bool) {
	if !IsArraySegment(segment) {
		return 0, false
	}
	n, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return n, true
}
