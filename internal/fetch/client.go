package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"
)

const (
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// DefaultTimeout bounds a single request including the body read.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps the bytes read from one response.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024

	// maxRedirects stops redirect loops.
	maxRedirects = 10
)

// Client fetches pages with a fixed browser identity.
type Client struct {
	// httpClient performs the requests.
	httpClient *http.Client

	// userAgent is sent as the User-Agent header.
	userAgent string

	// headers are extra headers added to every request.
	headers map[string]string

	// cookie is a raw Cookie header value added to every request.
	cookie string

	// proxyURL routes requests through an HTTP or SOCKS5 proxy when set.
	proxyURL string

	// timeout is the per-request timeout.
	timeout time.Duration

	// maxBodySize caps the response body.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithCookie adds a raw cookie string such as "session=abc" to every request.
func WithCookie(cookie string) Option {
	return func(c *Client) {
		c.cookie = cookie
	}
}

// WithProxy routes requests through the proxy at rawURL.
// Supported schemes are http, https, socks5 and socks5h.
func WithProxy(rawURL string) Option {
	return func(c *Client) {
		c.proxyURL = rawURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBodySize caps the number of bytes read from a response.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Proxy and timeout
// options are ignored when it is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		transport, err := newTransport(c.proxyURL)
		if err != nil {
			return nil, err
		}

		jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

		c.httpClient = &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
			Jar:       jar,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	hc := *c.httpClient
	hc.Transport = &headerInjectingTransport{
		base:      transportOrDefault(hc.Transport),
		userAgent: c.userAgent,
		cookie:    c.cookie,
		headers:   c.headers,
	}
	c.httpClient = &hc

	return c, nil
}

// newTransport builds the transport, routing through the proxy when one is set.
func newTransport(rawProxy string) (*http.Transport, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if rawProxy == "" {
		return transport, nil
	}

	u, err := url.Parse(rawProxy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxyURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidProxyURL, u.Redacted())
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProxyURL, err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidProxyURL, u.Scheme)
	}

	return transport, nil
}

// dialContext adapts a proxy.Dialer to the transport's DialContext.
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

func transportOrDefault(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

// Fetch retrieves pageURL and returns its body decoded to UTF-8.
// Any non-2xx status fails with a *StatusError.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pageURL, err)
	}
	if int64(len(raw)) > c.maxBodySize {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", pageURL, ErrBodyTooLarge, c.maxBodySize)
	}

	return decode(raw, resp.Header.Get("Content-Type"))
}

// decode converts raw to UTF-8 using the Content-Type charset or, failing
// that, the charset declared or sniffed in the markup.
func decode(raw []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		// Unknown charset label: keep the bytes as they are.
		return raw, nil //nolint:nilerr // undecodable labels fall back to raw bytes
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	return decoded, nil
}

// headerInjectingTransport wraps an http.RoundTripper to inject the
// User-Agent, extra headers and cookie into every request.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	cookie    string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	clone.Header.Set("User-Agent", t.userAgent)

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
