package swagspec

import (
	"encoding/json"
	"strings"
	"sync"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
)

// Document is a read-only view over a loaded, validated API description.
// The underlying model is the Swagger 2.0 shape regardless of whether the
// source document was v2 or v3.
type Document struct {
	doc      *openapi2.T
	location string

	once sync.Once
	tree map[string]any // JSON form of the document, built lazily for Get
}

func newDocument(doc *openapi2.T, location string) *Document {
	return &Document{doc: doc, location: location}
}

// Raw returns the underlying Swagger 2.0 model.
func (d *Document) Raw() *openapi2.T { return d.doc }

// Location returns the locator the document was loaded from.
func (d *Document) Location() string { return d.location }

// Host returns the declared API host, which may be empty.
func (d *Document) Host() string { return d.doc.Host }

// BasePath returns the declared base path, which may be empty.
func (d *Document) BasePath() string { return d.doc.BasePath }

// Schemes returns the declared transfer schemes in document order.
func (d *Document) Schemes() []string { return d.doc.Schemes }

// Get reads a value out of the document by JSON pointer, e.g. "/host",
// "/basePath", "/schemes", "/paths/~1pets/get". The boolean reports whether
// the pointer resolved.
func (d *Document) Get(pointer string) (any, bool) {
	d.once.Do(func() {
		raw, err := json.Marshal(d.doc)
		if err != nil {
			return
		}
		var tree map[string]any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return
		}
		d.tree = tree
	})
	if d.tree == nil {
		return nil, false
	}
	if pointer == "" || pointer == "/" {
		return d.tree, true
	}

	var cur any = d.tree
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[token]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// PathItems returns the document's path map. Callers must treat the result
// as read-only.
func (d *Document) PathItems() map[string]*openapi2.PathItem {
	return d.doc.Paths
}
