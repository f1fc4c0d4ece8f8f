package util

import "strings"

// SplitList splits a comma separated list, trimming blanks and dropping
// empty items and duplicates while keeping first-seen order.
func SplitList(s string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
