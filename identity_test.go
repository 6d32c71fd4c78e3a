package swagcall

import (
	"strings"
	"testing"
)

func TestSpecIdentity_Deterministic(t *testing.T) {
	t.Parallel()
	a := SpecIdentity("https://example.com/specs/petstore.yaml")
	b := SpecIdentity("https://example.com/specs/petstore.yaml")
	if a != b {
		t.Fatalf("same locator, different identities: %q vs %q", a, b)
	}
}

func TestSpecIdentity_SchemeInsensitive(t *testing.T) {
	t.Parallel()
	a := SpecIdentity("http://example.com/petstore.yaml")
	b := SpecIdentity("https://example.com/petstore.yaml")
	if a != b {
		t.Fatalf("scheme changed the identity: %q vs %q", a, b)
	}
}

func TestSpecIdentity_SanitizesToIdentifier(t *testing.T) {
	t.Parallel()
	id := SpecIdentity("https://example.com/v2/pet store.yaml?draft=1")
	for _, r := range id {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			t.Fatalf("identity %q contains unsafe rune %q", id, r)
		}
	}
	if id[0] >= '0' && id[0] <= '9' {
		t.Fatalf("identity %q starts with a digit", id)
	}
}

func TestSpecIdentity_LongLocatorHashes(t *testing.T) {
	t.Parallel()
	long := "https://example.com/" + strings.Repeat("a/", 200) + "spec.yaml"
	a := SpecIdentity(long)
	b := SpecIdentity(long)
	if a != b {
		t.Fatalf("hashing is not deterministic: %q vs %q", a, b)
	}
	if len(a) > identityMaxLen {
		t.Fatalf("hashed identity too long: %d", len(a))
	}
	if !strings.HasPrefix(a, "spec_") {
		t.Fatalf("hashed identity should carry the spec_ prefix: %q", a)
	}
	if a == SpecIdentity(long+"x") {
		t.Fatalf("distinct long locators collapsed to one identity")
	}
}

func TestSpecIdentity_Empty(t *testing.T) {
	t.Parallel()
	if got := SpecIdentity("///"); got != "spec" {
		t.Fatalf("degenerate locator should fall back to spec, got %q", got)
	}
}
