package keys

import "strings"

// ProfileKey produces a canonical key for a unit profile display name.
// Behavior: trims, lower-cases and collapses whitespace runs to a single
// underscore. Suitable for stable DB keys and army-list references.
func ProfileKey(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}
