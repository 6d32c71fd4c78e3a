package swagcall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/mark3labs/swagcall/swagspec"
)

// Args is the caller-supplied argument bag for one call, keyed by parameter
// name.
type Args map[string]any

// BaseURL is the scheme/host/path-prefix triple every operation URL is built
// relative to. It is a value type; each call works on its own copy, so
// reassigning the client's base never affects a request already being built.
type BaseURL struct {
	Scheme   string
	Host     string
	BasePath string
}

func (b BaseURL) String() string {
	u := url.URL{Scheme: b.Scheme, Host: b.Host, Path: b.BasePath}
	return u.String()
}

// defaultBaseURL derives base URL defaults from the document's declared
// schemes, host, and base path.
func defaultBaseURL(doc *swagspec.Document) BaseURL {
	base := BaseURL{Scheme: "http"}
	if v, ok := doc.Get("/schemes"); ok {
		if schemes, ok := v.([]any); ok && len(schemes) > 0 {
			if s, ok := schemes[0].(string); ok && s != "" {
				base.Scheme = s
			}
		}
	}
	if v, ok := doc.Get("/host"); ok {
		base.Host, _ = v.(string)
	}
	if v, ok := doc.Get("/basePath"); ok {
		base.BasePath, _ = v.(string)
	}
	return base
}

// ValidationFailure is the negative outcome of request synthesis: the
// ordered per-parameter errors, shaped like a 400 response so callers handle
// it as just another completed transaction.
type ValidationFailure struct {
	Status     int
	Errors     []string
	PartialURL string
}

// builtRequest is the positive outcome of request synthesis, ready to hand
// to the transport.
type builtRequest struct {
	method string
	url    *url.URL
	header http.Header
	body   []byte
	form   url.Values
}

// synthesize turns an operation definition plus an argument bag into either
// a ready-to-send request or a ValidationFailure. Every parameter is
// evaluated independently; all errors are collected before deciding the
// outcome, and exactly one of the two results is returned.
func synthesize(base BaseURL, op *Operation, args Args) (*builtRequest, *ValidationFailure) {
	u := &url.URL{Scheme: base.Scheme, Host: base.Host}

	// Expand the path template. An absent placeholder value substitutes as
	// the empty string; the parameter's own validation reports the miss.
	var path strings.Builder
	path.WriteString(strings.TrimSuffix(base.BasePath, "/"))
	for _, seg := range op.segments {
		path.WriteByte('/')
		if seg.param != "" {
			path.WriteString(url.PathEscape(stringifyValue(args[seg.param])))
			continue
		}
		path.WriteString(seg.literal)
	}
	u.Path = path.String()

	header := make(http.Header)
	query := url.Values{}
	form := url.Values{}
	var body []byte
	var bodySet bool
	var errs []string

	for _, p := range op.Params {
		value, present := args[p.Name]

		// Optional and absent: nothing to validate, nothing to route.
		if !present && !p.Required {
			continue
		}

		instance := map[string]any{}
		if present {
			instance[p.Name] = value
		}
		schema := wrapperSchema(p.Name, schemaForParameter(p), p.Required)
		if verrs := swagspec.ValidateValue(schema, instance); len(verrs) > 0 {
			for _, ve := range verrs {
				errs = append(errs, fmt.Sprintf("parameter %q in %s: %s", p.Name, p.In, ve))
			}
			continue
		}
		if !present {
			continue
		}

		switch p.In {
		case "query":
			for _, s := range stringifyList(value) {
				query.Add(p.Name, s)
			}
		case "header":
			header.Add(p.Name, stringifyValue(value))
		case "formData":
			for _, s := range stringifyList(value) {
				form.Add(p.Name, s)
			}
		case "body":
			encoded, structured, err := encodeBody(value)
			if err != nil {
				errs = append(errs, fmt.Sprintf("parameter %q in body: %v", p.Name, err))
				continue
			}
			body = encoded
			bodySet = true
			if structured {
				header.Set("Content-Type", "application/json")
			}
		case "path":
			// Substituted during template expansion above.
		}
	}
	u.RawQuery = query.Encode()

	if len(errs) > 0 {
		return nil, &ValidationFailure{
			Status:     http.StatusBadRequest,
			Errors:     errs,
			PartialURL: u.String(),
		}
	}

	br := &builtRequest{method: op.Method, url: u, header: header}
	if bodySet {
		br.body = body
	} else if len(form) > 0 {
		br.form = form
	}
	return br, nil
}

// httpRequest materializes the built request for the transport.
func (b *builtRequest) httpRequest(ctx context.Context) (*http.Request, error) {
	var rd io.Reader
	switch {
	case b.form != nil:
		rd = strings.NewReader(b.form.Encode())
	case b.body != nil:
		rd = bytes.NewReader(b.body)
	}
	req, err := http.NewRequestWithContext(ctx, b.method, b.url.String(), rd)
	if err != nil {
		return nil, err
	}
	for key, values := range b.header {
		req.Header[http.CanonicalHeaderKey(key)] = values
	}
	if b.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

// encodeBody serializes a body parameter value. Structured values go out as
// JSON; scalars go out raw.
func encodeBody(v any) (data []byte, structured bool, err error) {
	switch t := v.(type) {
	case nil:
		return nil, false, nil
	case string:
		return []byte(t), false, nil
	case []byte:
		return t, false, nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		data, err = json.Marshal(v)
		return data, true, err
	default:
		return []byte(fmt.Sprint(v)), false, nil
	}
}

// stringifyValue renders a scalar argument for a path, query, header, or
// form slot. Floats that carry integral values print without an exponent or
// trailing fraction so JSON-decoded numbers round-trip cleanly.
func stringifyValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(v)
	}
}

// stringifyList expands slice values into one entry per element (multi-value
// query/form parameters) and renders everything else as a single entry.
func stringifyList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, stringifyValue(item))
		}
		return out
	default:
		return []string{stringifyValue(v)}
	}
}
