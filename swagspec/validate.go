package swagspec

import (
	"encoding/json"

	"github.com/getkin/kin-openapi/openapi3"
)

// ValidateValue validates an instance against a schema and returns zero or
// more human-readable error strings; an empty result means valid. The
// instance is canonicalized through a JSON round trip first so Go-native
// values (ints, structs) validate the same way decoded JSON would.
func ValidateValue(schema *openapi3.Schema, instance any) []string {
	if schema == nil {
		return nil
	}
	canon, err := canonicalize(instance)
	if err != nil {
		return []string{"value is not JSON-representable: " + err.Error()}
	}
	err = schema.VisitJSON(canon, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return flattenErrors(err)
}

func flattenErrors(err error) []string {
	if multi, ok := err.(openapi3.MultiError); ok {
		var out []string
		for _, e := range multi {
			out = append(out, flattenErrors(e)...)
		}
		return out
	}
	if se, ok := err.(*openapi3.SchemaError); ok {
		return []string{se.Error()}
	}
	return []string{err.Error()}
}

func canonicalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
