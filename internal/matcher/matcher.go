// Package matcher decides whether an upstream professor is the instructor
// that was searched for.
//
// The policy is deliberately coarse, names only match when they are equal
// ignoring case. Cases that are known to produce false mismatches:
//   - initials used on the registration page
//   - a middle name listed upstream
//   - hyphenated last names on one side only
//   - nicknames on the registration page, full name upstream
package matcher

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// IsMismatch reports whether upstreamName should not be trusted as a result
// for queriedName.
func IsMismatch(upstreamName, queriedName string) bool {
	return strings.ToLower(upstreamName) != strings.ToLower(queriedName)
}

// Similarity is the Jaro-Winkler similarity of two names in [0, 1]. It is
// only used to flag mismatches that look like one of the known gaps, it never
// overrides IsMismatch.
func Similarity(a, b string) float64 {
	return matchr.JaroWinkler(strings.ToLower(a), strings.ToLower(b), false)
}

// NEAR_MATCH is the similarity above which a mismatch is worth a warning.
const NEAR_MATCH = 0.85
