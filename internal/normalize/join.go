// Package normalize converts raw person and company records into SearchResult values.
package normalize

import "strings"

// JoinPresent trims each part, drops the empty ones and joins the rest with
// single spaces. It is the one rule behind names, streets and areas.
func JoinPresent(parts ...string) string {
	present := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, " ")
}

// firstPresent returns the first non-blank value; used where the upstream has
// renamed a field between deployments.
func firstPresent(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
