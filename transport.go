package swagcall

import (
	"net/http"
	"time"
)

// Transport executes a synthesized request. The default implementation wraps
// *http.Client; tests and callers can substitute their own. Retry, pooling,
// and redirect policy all live behind this boundary, not in the client core.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

type httpTransport struct {
	client *http.Client
}

func newHTTPTransport(timeout time.Duration) *httpTransport {
	return &httpTransport{client: &http.Client{Timeout: timeout}}
}

func (t *httpTransport) Do(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}
