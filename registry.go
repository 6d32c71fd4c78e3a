package swagcall

import (
	"context"
	"sync"

	"github.com/mark3labs/swagcall/swagspec"
)

// clientType is the generated surface for one specification identity: the
// loaded document, its dispatch table, and the base URL defaults derived
// from it. A clientType is immutable after generation and shared by every
// Client built from the same locator.
type clientType struct {
	identity    string
	doc         *swagspec.Document
	ops         map[string]*Operation
	names       []string // sorted
	defaultBase BaseURL
}

// typeRegistry caches generated client types per specification identity for
// the life of the process. Entries are never evicted; re-resolving a locator
// must reuse the generated surface instead of rebuilding it, and unbounded
// growth is an accepted tradeoff of that contract.
var typeRegistry = struct {
	mu    sync.RWMutex
	types map[string]*clientType
}{types: make(map[string]*clientType)}

// resolveClientType returns the cached client type for the locator's
// identity, loading and generating it on first use. Loading happens outside
// the lock; generation is deterministic, so when two resolves of the same
// identity race, the first registration wins and the loser's result is
// discarded.
func resolveClientType(ctx context.Context, locator string, loadOpts ...swagspec.Option) (*clientType, error) {
	id := SpecIdentity(locator)

	typeRegistry.mu.RLock()
	cached := typeRegistry.types[id]
	typeRegistry.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	doc, err := swagspec.Load(ctx, locator, loadOpts...)
	if err != nil {
		return nil, err
	}
	ops, names, err := generateOperations(doc)
	if err != nil {
		return nil, err
	}
	generated := &clientType{
		identity:    id,
		doc:         doc,
		ops:         ops,
		names:       names,
		defaultBase: defaultBaseURL(doc),
	}

	typeRegistry.mu.Lock()
	defer typeRegistry.mu.Unlock()
	if existing := typeRegistry.types[id]; existing != nil {
		return existing, nil
	}
	typeRegistry.types[id] = generated
	return generated, nil
}
