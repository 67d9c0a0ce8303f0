// Package tags extracts possible-diagnosis lines from summary text.
package tags

import "strings"

// Extract returns the lines of summary containing any marker, in order of
// appearance. Matching is case-insensitive so "Possible anxiety disorder"
// matches the marker "possible". A best-effort heuristic: zero matches is
// a normal outcome, never an error.
func Extract(summary string, markers []string) []string {
	tags := []string{}
	if summary == "" || len(markers) == 0 {
		return tags
	}

	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}

	for _, line := range strings.Split(summary, "\n") {
		lowerLine := strings.ToLower(line)
		for _, m := range lowered {
			if m != "" && strings.Contains(lowerLine, m) {
				tags = append(tags, line)
				break
			}
		}
	}
	return tags
}
