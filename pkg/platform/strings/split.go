// Package strings holds the value splitting and set helpers the normalizers use.
package strings

import (
	"iter"
	"strings"
)

// MultiSplit splits value on each delimiter in turn and yields the trimmed,
// non-empty parts in source order. The first delimiter splits the whole value,
// the second splits every resulting part, and so on.
//
// An empty value yields nothing.
//
// Example:
//
//	slices.Collect(MultiSplit("a; b/c", ";", "/"))
//	// Returns: []string{"a", "b", "c"}
func MultiSplit(value string, delimiters ...string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if value == "" {
			return
		}
		parts := []string{value}
		for _, delim := range delimiters {
			if delim == "" {
				continue
			}
			next := make([]string, 0, len(parts))
			for _, part := range parts {
				next = append(next, strings.Split(part, delim)...)
			}
			parts = next
		}
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if !yield(trimmed) {
				return
			}
		}
	}
}

// CutFirst returns the part of value before the first occurrence of sep, or
// value itself when sep does not occur.
func CutFirst(value, sep string) string {
	before, _, _ := strings.Cut(value, sep)
	return before
}
