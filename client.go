package swagcall

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mark3labs/swagcall/swagspec"
)

// Client is one usable instance of a generated client type. The dispatch
// table is shared with every other client built from the same locator; the
// base URL, transport, and logger are per-instance.
type Client struct {
	typ       *clientType
	transport Transport
	logger    *zap.Logger
	sched     *scheduler

	mu   sync.RWMutex
	base BaseURL
}

// Callback receives the completed transaction of a non-blocking call. It is
// never invoked on the stack of the call that scheduled it.
type Callback func(*Transaction)

type clientConfig struct {
	base      *BaseURL
	scheme    string
	host      string
	basePath  string
	transport Transport
	timeout   time.Duration
	logger    *zap.Logger
	loadOpts  []swagspec.Option
}

// ClientOption overrides client construction defaults.
type ClientOption func(*clientConfig)

// WithBaseURL replaces the document-derived base URL outright.
func WithBaseURL(base BaseURL) ClientOption {
	return func(c *clientConfig) { c.base = &base }
}

// WithScheme overrides the base URL scheme.
func WithScheme(scheme string) ClientOption {
	return func(c *clientConfig) { c.scheme = scheme }
}

// WithHost overrides the base URL host (host or host:port).
func WithHost(host string) ClientOption {
	return func(c *clientConfig) { c.host = host }
}

// WithBasePath overrides the base URL path prefix.
func WithBasePath(basePath string) ClientOption {
	return func(c *clientConfig) { c.basePath = basePath }
}

// WithTransport substitutes the HTTP transport.
func WithTransport(t Transport) ClientOption {
	return func(c *clientConfig) { c.transport = t }
}

// WithHTTPTimeout bounds each dispatched request on the default transport.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.timeout = d }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *clientConfig) { c.logger = logger }
}

// WithLoadOptions forwards options to the document loader.
func WithLoadOptions(opts ...swagspec.Option) ClientOption {
	return func(c *clientConfig) { c.loadOpts = append(c.loadOpts, opts...) }
}

// New builds a client for the specification at locator (file path or
// http(s) URL). The generated client type is cached process-wide by the
// locator's identity, so constructing two clients from the same document
// loads and generates only once. A malformed or unreachable specification
// fails construction; that is the only hard-failure path in the package.
func New(ctx context.Context, locator string, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{
		timeout: 30 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	typ, err := resolveClientType(ctx, locator, cfg.loadOpts...)
	if err != nil {
		return nil, err
	}

	base := typ.defaultBase
	if cfg.base != nil {
		base = *cfg.base
	}
	if cfg.scheme != "" {
		base.Scheme = cfg.scheme
	}
	if cfg.host != "" {
		base.Host = cfg.host
	}
	if cfg.basePath != "" {
		base.BasePath = cfg.basePath
	}

	transport := cfg.transport
	if transport == nil {
		transport = newHTTPTransport(cfg.timeout)
	}

	c := &Client{
		typ:       typ,
		transport: transport,
		logger:    cfg.logger,
		sched:     newScheduler(),
		base:      base,
	}
	c.logger.Debug("client ready",
		zap.String("identity", typ.identity),
		zap.Int("operations", len(typ.names)),
		zap.String("base_url", base.String()))
	return c, nil
}

// Operations returns the generated callable names in sorted order.
func (c *Client) Operations() []string {
	out := make([]string, len(c.typ.names))
	copy(out, c.typ.names)
	return out
}

// Operation returns the definition registered under name.
func (c *Client) Operation(name string) (*Operation, bool) {
	op, ok := c.typ.ops[name]
	return op, ok
}

// Document returns the read-only document view the client was built from.
func (c *Client) Document() *swagspec.Document { return c.typ.doc }

// BaseURL returns the current base URL.
func (c *Client) BaseURL() BaseURL {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base
}

// SetBaseURL reassigns the base URL. Calls already in flight keep the base
// they cloned at synthesis time.
func (c *Client) SetBaseURL(base BaseURL) {
	c.mu.Lock()
	c.base = base
	c.mu.Unlock()
}

// BindLocal points the client at an in-process server by rewriting the base
// URL's scheme and host(:port) from rawURL, e.g. an httptest.Server.URL.
func (c *Client) BindLocal(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("bind local: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("bind local: %q has no scheme or host", rawURL)
	}
	c.mu.Lock()
	c.base.Scheme = u.Scheme
	c.base.Host = u.Host
	c.mu.Unlock()
	return nil
}

// Call invokes the named operation and blocks until it completes. The
// returned transaction carries the response, a transport error, or a local
// validation failure; the error return is reserved for unknown operation
// names.
func (c *Client) Call(ctx context.Context, name string, args Args) (*Transaction, error) {
	op, ok := c.typ.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return c.invoke(ctx, op, args, nil), nil
}

// CallAsync invokes the named operation without blocking and returns the
// client for chaining. The callback receives the completed transaction and
// never fires before CallAsync returns, whether the call failed validation
// locally or completed on the transport.
func (c *Client) CallAsync(ctx context.Context, name string, args Args, cb Callback) (*Client, error) {
	if cb == nil {
		return nil, errors.New("swagcall: nil callback")
	}
	op, ok := c.typ.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	c.invoke(ctx, op, args, cb)
	return c, nil
}

// Close stops the callback scheduler after pending callbacks drain. Clients
// that only ever issue blocking calls never need it.
func (c *Client) Close() {
	c.sched.close()
}
