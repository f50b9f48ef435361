package textutil

import "strings"

// OrderedSet trims values, drops empty entries, and removes duplicates while
// keeping the first occurrence. The result is a fresh slice, never nil.
func OrderedSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
