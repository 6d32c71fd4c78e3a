package swagcall

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// identityMaxLen bounds the length of a derived identity; anything longer
// collapses to a fixed-length hash of the normalized locator.
const identityMaxLen = 110

var (
	locatorSchemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)
	nonIdentRe      = regexp.MustCompile(`[^A-Za-z0-9_]+`)
)

// SpecIdentity derives the deterministic, namespace-safe identity for a
// specification locator. The URL scheme is stripped first, so http and https
// locators for the same document share one identity. Runs of non-identifier
// characters become a single underscore.
func SpecIdentity(locator string) string {
	s := locatorSchemeRe.ReplaceAllString(strings.TrimSpace(locator), "")
	s = nonIdentRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "spec"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "spec_" + s
	}
	if len(s) > identityMaxLen {
		sum := sha256.Sum256([]byte(s))
		return "spec_" + hex.EncodeToString(sum[:])
	}
	return s
}
