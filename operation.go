package swagcall

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/swagcall/swagspec"
)

// Operation is one generated callable: an HTTP method, a parsed path
// template, and the merged parameter list it validates against. Operations
// are immutable once generated and shared by every call on the client type.
type Operation struct {
	// Name is the sanitized callable name the operation is registered under.
	Name string
	// ID is the operationId as declared in the document.
	ID string
	// Method is the upper-case HTTP method.
	Method string
	// Path is the original path template, e.g. "/pets/{id}".
	Path string
	// Params holds the merged path-level and operation-level parameters in
	// declared order.
	Params []*openapi2.Parameter

	segments []pathSegment
}

// pathSegment is one piece of a parsed path template: either a literal or a
// {name} placeholder.
type pathSegment struct {
	literal string
	param   string
}

var identSanitizeRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// sanitizeOperationName maps an operationId onto a safe callable name.
func sanitizeOperationName(id string) string {
	return identSanitizeRe.ReplaceAllString(id, "_")
}

// parsePathTemplate splits a path template into segments, marking {name}
// placeholders.
func parsePathTemplate(path string) []pathSegment {
	var segs []pathSegment
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			segs = append(segs, pathSegment{param: strings.Trim(part, "{}")})
			continue
		}
		segs = append(segs, pathSegment{literal: part})
	}
	return segs
}

// generateOperations walks the document's path map and produces one
// Operation per named operation. Operations without an operationId are not
// exposed. Two identifiers sanitizing to the same name is a hard generation
// error.
func generateOperations(doc *swagspec.Document) (map[string]*Operation, []string, error) {
	ops := make(map[string]*Operation)

	paths := doc.PathItems()
	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, p := range pathKeys {
		item := paths[p]
		if item == nil {
			continue
		}
		// Fixed method order keeps generation deterministic.
		methodOps := []struct {
			method string
			op     *openapi2.Operation
		}{
			{http.MethodGet, item.Get},
			{http.MethodPost, item.Post},
			{http.MethodPut, item.Put},
			{http.MethodDelete, item.Delete},
			{http.MethodPatch, item.Patch},
			{http.MethodHead, item.Head},
			{http.MethodOptions, item.Options},
		}
		for _, pair := range methodOps {
			if pair.op == nil || pair.op.OperationID == "" {
				continue
			}
			name := sanitizeOperationName(pair.op.OperationID)
			if prev, exists := ops[name]; exists {
				return nil, nil, fmt.Errorf("%w: %q generated by both %s %s and %s %s",
					ErrDuplicateOperation, name, prev.Method, prev.Path, pair.method, p)
			}
			ops[name] = &Operation{
				Name:     name,
				ID:       pair.op.OperationID,
				Method:   pair.method,
				Path:     p,
				Params:   mergeParameters(doc, item.Parameters, pair.op.Parameters),
				segments: parsePathTemplate(p),
			}
		}
	}

	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return ops, names, nil
}

// mergeParameters combines path-level parameters with operation-level ones,
// operation-level winning on (in, name) conflicts. Declared order is kept:
// path-level entries first, new operation-level entries appended.
func mergeParameters(doc *swagspec.Document, pathLevel, opLevel []*openapi2.Parameter) []*openapi2.Parameter {
	var merged []*openapi2.Parameter
	index := make(map[string]int)

	add := func(p *openapi2.Parameter) {
		p = resolveParameterRef(doc, p)
		if p == nil {
			return
		}
		key := p.In + "\x00" + p.Name
		if i, ok := index[key]; ok {
			merged[i] = p
			return
		}
		index[key] = len(merged)
		merged = append(merged, p)
	}
	for _, p := range pathLevel {
		add(p)
	}
	for _, p := range opLevel {
		add(p)
	}
	return merged
}

// resolveParameterRef follows a "#/parameters/<name>" reference into the
// document's shared parameter definitions.
func resolveParameterRef(doc *swagspec.Document, p *openapi2.Parameter) *openapi2.Parameter {
	if p == nil || p.Ref == "" {
		return p
	}
	const prefix = "#/parameters/"
	if !strings.HasPrefix(p.Ref, prefix) {
		return p
	}
	if shared, ok := doc.Raw().Parameters[strings.TrimPrefix(p.Ref, prefix)]; ok {
		return shared
	}
	return p
}

// schemaForParameter returns the validation schema for a parameter. Body
// parameters carry a full schema; the other locations describe their value
// inline with Swagger 2 parameter fields, which map onto an equivalent
// schema here.
func schemaForParameter(p *openapi2.Parameter) *openapi3.Schema {
	if p.Schema != nil && p.Schema.Value != nil {
		return p.Schema.Value
	}
	s := &openapi3.Schema{
		Type:         p.Type,
		Format:       p.Format,
		Enum:         p.Enum,
		Pattern:      p.Pattern,
		Min:          p.Minimum,
		Max:          p.Maximum,
		MultipleOf:   p.MultipleOf,
		ExclusiveMin: p.ExclusiveMin,
		ExclusiveMax: p.ExclusiveMax,
		UniqueItems:  p.UniqueItems,
		Items:        p.Items,
		MinLength:    p.MinLength,
		MaxLength:    p.MaxLength,
		MinItems:     p.MinItems,
		MaxItems:     p.MaxItems,
	}
	// Swagger 2 file uploads have no JSON schema equivalent; validate the
	// field name as a string.
	if s.Type == "file" {
		s.Type = "string"
	}
	return s
}

// wrapperSchema builds the synthetic single-property object schema each
// parameter is validated through, so error messages stay parameter-scoped.
func wrapperSchema(name string, param *openapi3.Schema, required bool) *openapi3.Schema {
	obj := &openapi3.Schema{
		Type: "object",
		Properties: openapi3.Schemas{
			name: openapi3.NewSchemaRef("", param),
		},
	}
	if required {
		obj.Required = []string{name}
	}
	return obj
}
