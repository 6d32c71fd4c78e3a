package swagcall

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// Transaction is the uniform, caller-observable result of one call: a real
// response, a transport error, or a local validation failure, all carried in
// the same shape. The core never classifies HTTP status codes; callers
// inspect StatusCode and Err themselves.
type Transaction struct {
	// ID correlates a transaction across logs and callbacks.
	ID string
	// Method and URL describe the request the transaction answers. For a
	// validation failure, URL is the partially-built URL.
	Method string
	URL    string

	StatusCode int
	Header     http.Header
	Body       []byte

	// Err is set for transport-level failures only. Validation failures are
	// data, not errors.
	Err error

	// Failure is set when the transaction represents a local validation
	// failure; the same information is also materialized in StatusCode,
	// Header and Body.
	Failure *ValidationFailure
}

// JSON decodes the transaction body into v.
func (t *Transaction) JSON(v any) error {
	return json.Unmarshal(t.Body, v)
}

// validationErrorBody is the wire form of a synthesized failure response.
type validationErrorBody struct {
	Code   string   `json:"code"`
	Errors []string `json:"errors"`
}

// newValidationTransaction materializes a ValidationFailure as a
// transaction shaped like a 400 response.
func newValidationTransaction(method string, f *ValidationFailure) *Transaction {
	body, _ := json.Marshal(validationErrorBody{Code: "ValidationError", Errors: f.Errors})
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &Transaction{
		ID:         uuid.NewString(),
		Method:     method,
		URL:        f.PartialURL,
		StatusCode: f.Status,
		Header:     header,
		Body:       body,
		Failure:    f,
	}
}

// newHTTPTransaction wraps a transport result. The response body is drained
// and closed here so the transaction owns plain bytes.
func newHTTPTransaction(req *http.Request, resp *http.Response, err error) *Transaction {
	tx := &Transaction{
		ID:     uuid.NewString(),
		Method: req.Method,
		URL:    req.URL.String(),
		Err:    err,
	}
	if resp == nil {
		return tx
	}
	defer resp.Body.Close()
	tx.StatusCode = resp.StatusCode
	tx.Header = resp.Header
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil && tx.Err == nil {
		tx.Err = readErr
	}
	tx.Body = body
	return tx
}
