package strings

import "strings"

// AppendUnique appends each value to set after trimming it, skipping blanks
// and values set already holds. set is treated as an ordered set and is
// never modified in place; the result is a fresh slice.
func AppendUnique(set []string, values ...string) []string {
	result := make([]string, 0, len(set)+len(values))
	seen := make(map[string]struct{}, len(set)+len(values))
	for _, v := range set {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}
