package core

import (
	"sort"
	"strings"
)

// baseTag names the configuration with no overridden options.
const baseTag = "base"

// Tag builds a canonical slug from the set of overridden options. Keys are
// sorted, so two configurations with the same overrides always produce the
// same tag regardless of the order options were set in. Distinct
// configurations can then coexist under one experiment directory without
// collision.
func Tag(overrides map[string]string) string {
	if len(overrides) == 0 {
		return baseTag
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, slugify(k)+"="+slugify(overrides[k]))
	}
	return strings.Join(parts, "_")
}

// slugify lowercases s and replaces anything outside [a-z0-9.-] with '-',
// collapsing runs so paths built from tags stay readable.
func slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
